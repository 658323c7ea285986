package admissions

import (
	"fmt"
	"strings"

	"github.com/sunnysmathworld/smw-admin/internal/utils"
)

const (
	statusFallback    = "pending"
	statusRawFallback = "PENDING"
	statusPaid        = "paid"
)

type BatchDetail struct {
	ID               int     `json:"id"`
	Label            string  `json:"label"`
	BatchNumber      *string `json:"batchNumber"`
	ClassName        *string `json:"className"`
	GroupName        *string `json:"groupName"`
	Days             *string `json:"days"`
	TimeSlot         *string `json:"timeSlot"`
	CourseTitle      *string `json:"courseTitle"`
	CourseGradeLevel *string `json:"courseGradeLevel"`
}

type Guardian struct {
	ID               int     `json:"id"`
	Role             string  `json:"role"`
	Name             string  `json:"name"`
	Occupation       *string `json:"occupation"`
	ContactNumber    *string `json:"contactNumber"`
	Email            *string `json:"email"`
	IsPrimaryContact bool    `json:"isPrimaryContact"`
}

// Record is the dashboard view of an application.
type Record struct {
	ID                int          `json:"id"`
	ApplicationNumber string       `json:"applicationNumber"`
	StudentName       string       `json:"studentName"`
	StudentNickName   *string      `json:"studentNickName"`
	DateOfBirth       string       `json:"dateOfBirth"`
	Sex               string       `json:"sex"`
	CurrentClass      string       `json:"currentClass"`
	Batch             *string      `json:"batch"`
	BatchDetail       *BatchDetail `json:"batchDetail,omitempty"`
	JSCResult         *string      `json:"jscResult"`
	SSCResult         *string      `json:"sscResult"`
	JSCSchoolName     *string      `json:"jscSchoolName"`
	SSCSchoolName     *string      `json:"sscSchoolName"`
	StudentMobile     *string      `json:"studentMobile"`
	StudentEmail      *string      `json:"studentEmail"`
	HomeLocation      *string      `json:"homeLocation"`
	HomeDistrict      *string      `json:"homeDistrict"`
	Picture           *string      `json:"picture"`
	IsSubmitted       bool         `json:"isSubmitted"`
	IsReviewed        bool         `json:"isReviewed"`
	IsApproved        bool         `json:"isApproved"`
	Status            string       `json:"status"`
	StatusRaw         string       `json:"statusRaw"`
	School            *string      `json:"school"`
	CreatedAt         string       `json:"createdAt"`
	UpdatedAt         string       `json:"updatedAt"`
	Guardians         []Guardian   `json:"guardians"`
	GroupName         *string      `json:"groupName"`
	Subject           *string      `json:"subject"`
	PrevStudent       bool         `json:"prevStudent"`
	HearAboutUs       *string      `json:"hearAboutUs"`
}

// FormatApplicationNumber renders an id as APP-0001.
func FormatApplicationNumber(id int) string {
	return fmt.Sprintf("APP-%04d", id)
}

// NormalizeStatus lower-cases a status, defaulting to "pending".
func NormalizeStatus(status *string) string {
	if status == nil {
		return statusFallback
	}
	return strings.ToLower(*status)
}

func mapBatchDetail(d *BatchDetailAPI) *BatchDetail {
	if d == nil {
		return nil
	}

	var parts []string
	if d.Course != nil && utils.Value(d.Course.GradeLevel) != "" {
		parts = append(parts, *d.Course.GradeLevel)
	}
	if n := utils.Value(d.BatchNumber); n != "" {
		parts = append(parts, "Batch "+n)
	}
	if g := utils.Value(d.GroupName); g != "" {
		parts = append(parts, "("+g+")")
	}

	label := fmt.Sprintf("Batch #%d", d.ID)
	switch {
	case d.Label != nil:
		label = *d.Label
	case len(parts) > 0:
		label = strings.Join(parts, " ")
	}

	detail := &BatchDetail{
		ID:          d.ID,
		Label:       label,
		BatchNumber: d.BatchNumber,
		ClassName:   d.ClassName,
		GroupName:   d.GroupName,
		Days:        d.Days,
		TimeSlot:    d.TimeSlot,
	}
	if d.Course != nil {
		detail.CourseTitle = d.Course.Title
		detail.CourseGradeLevel = d.Course.GradeLevel
	}
	return detail
}

func mapGuardian(g GuardianAPI) Guardian {
	return Guardian{
		ID:               g.ID,
		Role:             g.Role,
		Name:             g.Name,
		Occupation:       g.Occupation,
		ContactNumber:    g.ContactNumber,
		Email:            g.EmailAddress,
		IsPrimaryContact: g.IsPrimaryContact,
	}
}

func firstPresent(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// MapApplication converts a backend application into a dashboard Record.
func MapApplication(api ApplicationAPI) Record {
	status := NormalizeStatus(api.Status)
	statusRaw := utils.ValueOr(api.Status, statusRawFallback)

	batchDetail := mapBatchDetail(api.BatchDetail)
	var batch *string
	switch {
	case batchDetail != nil:
		batch = utils.Ptr(batchDetail.Label)
	case api.Batch != nil && *api.Batch != 0:
		batch = utils.Ptr(fmt.Sprintf("Batch #%d", *api.Batch))
	}

	updatedAt := utils.ValueOr(api.UpdatedAt, api.CreatedAt)

	guardians := make([]Guardian, 0, len(api.Guardians))
	for _, g := range api.Guardians {
		guardians = append(guardians, mapGuardian(g))
	}

	return Record{
		ID:                api.ID,
		ApplicationNumber: FormatApplicationNumber(api.ID),
		StudentName:       api.StudentName,
		StudentNickName:   api.StudentNickName,
		DateOfBirth:       api.DateOfBirth,
		Sex:               api.Sex,
		CurrentClass:      api.CurrentClass,
		Batch:             batch,
		BatchDetail:       batchDetail,
		JSCResult:         api.JSCResult,
		SSCResult:         api.SSCResult,
		JSCSchoolName:     api.JSCSchoolName,
		SSCSchoolName:     api.SSCSchoolName,
		StudentMobile:     api.StudentMobile,
		StudentEmail:      api.StudentEmail,
		HomeLocation:      api.HomeLocation,
		HomeDistrict:      api.HomeDistrict,
		Picture:           api.Picture,
		IsSubmitted:       true,
		IsReviewed:        api.IsReviewed,
		IsApproved:        status == statusPaid,
		Status:            status,
		StatusRaw:         statusRaw,
		School:            firstPresent(api.JSCSchoolName, api.SSCSchoolName, api.HomeDistrict),
		CreatedAt:         api.CreatedAt,
		UpdatedAt:         updatedAt,
		Guardians:         guardians,
		GroupName:         api.GroupName,
		Subject:           api.Subject,
		PrevStudent:       api.PrevStudent,
		HearAboutUs:       api.HearAboutUs,
	}
}
