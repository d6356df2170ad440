package dto

import "github.com/anandr/kuliahku/internal/app/models"

// CreateCourseRequest represents the body of a course creation request.
// Identity fields (id, user_id, created_at) are not part of the surface.
type CreateCourseRequest struct {
	Name        string  `json:"name"`
	Lecturer    *string `json:"lecturer"`
	Semester    *int    `json:"semester"`
	SKS         *int    `json:"sks"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// ToModel builds the course to be persisted. Ownership is attached by the
// service from the session, never from the body.
func (r CreateCourseRequest) ToModel() *models.Course {
	course := &models.Course{
		Name:        r.Name,
		Lecturer:    r.Lecturer,
		Semester:    r.Semester,
		SKS:         r.SKS,
		Description: r.Description,
	}
	if r.Category != nil {
		category := models.CourseCategory(*r.Category)
		course.Category = &category
	}
	return course
}

// UpdateCourseRequest represents a partial course edit. Omitted keys leave
// the stored value untouched.
type UpdateCourseRequest struct {
	Name        *string `json:"name"`
	Lecturer    *string `json:"lecturer"`
	Semester    *int    `json:"semester"`
	SKS         *int    `json:"sks"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// ToChanges converts the request into the repository change set.
func (r UpdateCourseRequest) ToChanges() models.CourseChanges {
	changes := models.CourseChanges{
		Name:        r.Name,
		Lecturer:    r.Lecturer,
		Semester:    r.Semester,
		SKS:         r.SKS,
		Description: r.Description,
	}
	if r.Category != nil {
		category := models.CourseCategory(*r.Category)
		changes.Category = &category
	}
	return changes
}
