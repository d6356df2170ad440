package models

import "time"

// CourseCategory classifies a course within the curriculum.
type CourseCategory string

const (
	CategoryWajib      CourseCategory = "Wajib"
	CategoryPilihan    CourseCategory = "Pilihan"
	CategoryPraktikum  CourseCategory = "Praktikum"
	CategoryTugasAkhir CourseCategory = "Tugas Akhir"
	CategoryKKN        CourseCategory = "KKN"
	CategoryMagang     CourseCategory = "Magang"
)

// CourseCategories lists every legal course category value.
var CourseCategories = []CourseCategory{
	CategoryWajib,
	CategoryPilihan,
	CategoryPraktikum,
	CategoryTugasAkhir,
	CategoryKKN,
	CategoryMagang,
}

// ValidCourseCategory reports whether v is one of the fixed category values.
func ValidCourseCategory(v CourseCategory) bool {
	for _, c := range CourseCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Semester and credit-hour (SKS) bounds.
const (
	SemesterMin = 1
	SemesterMax = 14
	SKSMin      = 1
	SKSMax      = 6
)

// Course defines the course model based on the 'courses' table.
type Course struct {
	ID          string          `json:"id" db:"id" example:"7c0e3f9a-4f0f-4a34-9c28-1de1e43c6a11"`
	UserID      string          `json:"user_id" db:"user_id"`
	Name        string          `json:"name" db:"name" example:"Algoritma dan Struktur Data"`
	Lecturer    *string         `json:"lecturer,omitempty" db:"lecturer"`       // Nullable
	Semester    *int            `json:"semester,omitempty" db:"semester"`       // Nullable, 1-14
	SKS         *int            `json:"sks,omitempty" db:"sks"`                 // Nullable, 1-6
	Description *string         `json:"description,omitempty" db:"description"` // Nullable
	Category    *CourseCategory `json:"category,omitempty" db:"category"`       // Nullable, fixed enumeration
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// CourseChanges is the writable field subset for a course edit. Nil fields
// are left untouched by the store; identity and creation-timestamp fields
// are not representable here at all.
type CourseChanges struct {
	Name        *string
	Lecturer    *string
	Semester    *int
	SKS         *int
	Description *string
	Category    *CourseCategory
}

// IsEmpty reports whether the change set carries no fields.
func (c CourseChanges) IsEmpty() bool {
	return c.Name == nil && c.Lecturer == nil && c.Semester == nil &&
		c.SKS == nil && c.Description == nil && c.Category == nil
}
