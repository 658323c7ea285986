package admissions

// Course is the course summary nested in a batch.
type Course struct {
	ID         int     `json:"id"`
	Title      *string `json:"title,omitempty"`
	GradeLevel *string `json:"grade_level,omitempty"`
}

// BatchDetailAPI is the batch_detail object of an application.
type BatchDetailAPI struct {
	ID          int     `json:"id"`
	Label       *string `json:"label,omitempty"`
	BatchNumber *string `json:"batch_number,omitempty"`
	ClassName   *string `json:"class_name,omitempty"`
	GroupName   *string `json:"group_name,omitempty"`
	Days        *string `json:"days,omitempty"`
	TimeSlot    *string `json:"time_slot,omitempty"`
	Course      *Course `json:"course,omitempty"`
}

type GuardianAPI struct {
	ID               int     `json:"id"`
	Role             string  `json:"role"`
	Name             string  `json:"name"`
	Occupation       *string `json:"occupation,omitempty"`
	ContactNumber    *string `json:"contact_number,omitempty"`
	EmailAddress     *string `json:"email_address,omitempty"`
	IsPrimaryContact bool    `json:"is_primary_contact,omitempty"`
}

// ApplicationAPI is an admission application as the backend serializes it.
type ApplicationAPI struct {
	ID              int             `json:"id"`
	StudentName     string          `json:"student_name"`
	StudentNickName *string         `json:"student_nick_name,omitempty"`
	HomeDistrict    *string         `json:"home_district,omitempty"`
	DateOfBirth     string          `json:"date_of_birth"`
	Sex             string          `json:"sex"`
	CurrentClass    string          `json:"current_class"`
	GroupName       *string         `json:"group_name,omitempty"`
	Subject         *string         `json:"subject,omitempty"`
	JSCSchoolName   *string         `json:"jsc_school_name,omitempty"`
	JSCResult       *string         `json:"jsc_result,omitempty"`
	SSCSchoolName   *string         `json:"ssc_school_name,omitempty"`
	SSCResult       *string         `json:"ssc_result,omitempty"`
	Batch           *int            `json:"batch,omitempty"`
	BatchDetail     *BatchDetailAPI `json:"batch_detail,omitempty"`
	StudentMobile   *string         `json:"student_mobile,omitempty"`
	StudentEmail    *string         `json:"student_email,omitempty"`
	HomeLocation    *string         `json:"home_location,omitempty"`
	Picture         *string         `json:"picture,omitempty"`
	HearAboutUs     *string         `json:"hear_about_us,omitempty"`
	PrevStudent     bool            `json:"prev_student,omitempty"`
	Status          *string         `json:"status,omitempty"`
	IsReviewed      bool            `json:"is_reviewed,omitempty"`
	User            *int            `json:"user,omitempty"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       *string         `json:"updated_at,omitempty"`
	Guardians       []GuardianAPI   `json:"guardians,omitempty"`
}

// Review is the PATCH body of the review endpoint. Nil fields are left unchanged.
type Review struct {
	IsReviewed *bool `json:"is_reviewed,omitempty"`
	IsApproved *bool `json:"is_approved,omitempty"`
}
