package entity

type Genre struct {
	Base
	NameEnglish string `db:"name_english"`
	NameArabic  string `db:"name_arabic"`
	Status      bool   `db:"status"`
}
