package devbackend

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sunnysmathworld/smw-admin/admissions"
	"github.com/sunnysmathworld/smw-admin/internal/utils"
	"github.com/sunnysmathworld/smw-admin/users"
)

// Seed accounts. Every account shares SeedPassword.
const (
	SeedPassword      = "smw-dev-pass"
	SeedStaffEmail    = "admin@smw.test"
	SeedPendingEmail  = "pending@smw.test"
	SeedStudentEmail  = "student@smw.test"
	SeedSuperEmail    = "principal@smw.test"
	SeedInactiveEmail = "former@smw.test"
)

// SeedUsers registers the development accounts.
func SeedUsers(repo users.UserRepo) error {
	hash, err := users.HashPassword(SeedPassword)
	if err != nil {
		return errors.Wrap(err, "SeedUsers HashPassword")
	}
	joined := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)

	accounts := []*users.User{
		{Email: SeedStaffEmail, FirstName: "Nadia", LastName: "Rahman", Phone: "01700000001", IsActive: true, IsStaff: true, IsApproved: true},
		{Email: SeedPendingEmail, FirstName: "Karim", LastName: "Hossain", IsActive: true, IsStaff: true},
		{Email: SeedStudentEmail, FirstName: "Tania", LastName: "Akter", CurrentClass: "Class 9", IsActive: true, IsApproved: true},
		{Email: SeedSuperEmail, FirstName: "Farhana", IsActive: true, IsStaff: true, IsSuperuser: true, IsApproved: true},
		{Email: SeedInactiveEmail, IsStaff: true, IsApproved: true},
	}
	for _, u := range accounts {
		u.PasswordHash = hash
		u.DateJoined = joined
		if err := repo.Upsert(u); err != nil {
			return errors.Wrapf(err, "SeedUsers Upsert %s", u.Email)
		}
	}
	return nil
}

// SeedApplications adds sample admission applications. The last one belongs to the seed student.
func SeedApplications(repo *ApplicationRepo, userRepo users.UserRepo) error {
	batch := &admissions.BatchDetailAPI{
		ID:          3,
		Label:       utils.Ptr("Class 9 Batch 2 – Sat · 10:00 (Science)"),
		BatchNumber: utils.Ptr("2"),
		ClassName:   utils.Ptr("Class 9"),
		GroupName:   utils.Ptr("Science"),
		Days:        utils.Ptr("Sat"),
		TimeSlot:    utils.Ptr("10:00"),
		Course:      &admissions.Course{ID: 1, Title: utils.Ptr("Mathematics Foundation"), GradeLevel: utils.Ptr("Class 9")},
	}

	repo.Add(admissions.ApplicationAPI{
		StudentName:   "Rafi Ahmed",
		DateOfBirth:   "2011-04-17",
		Sex:           "M",
		CurrentClass:  "Class 9",
		GroupName:     utils.Ptr("Science"),
		JSCSchoolName: utils.Ptr("Dhaka Residential Model School"),
		Batch:         utils.Ptr(batch.ID),
		BatchDetail:   batch,
		StudentMobile: utils.Ptr("01800000011"),
		StudentEmail:  utils.Ptr("rafi@example.com"),
		HomeDistrict:  utils.Ptr("Dhaka"),
		Status:        utils.Ptr("PENDING"),
		CreatedAt:     "2025-01-05T08:30:00Z",
		Guardians: []admissions.GuardianAPI{
			{ID: 1, Role: "FATHER", Name: "Jamal Ahmed", ContactNumber: utils.Ptr("01711111111"), IsPrimaryContact: true},
			{ID: 2, Role: "MOTHER", Name: "Salma Ahmed", Occupation: utils.Ptr("Teacher")},
		},
	})
	repo.Add(admissions.ApplicationAPI{
		StudentName:     "Mim Chowdhury",
		StudentNickName: utils.Ptr("Mim"),
		DateOfBirth:     "2010-11-02",
		Sex:             "F",
		CurrentClass:    "Class 10",
		SSCSchoolName:   utils.Ptr("Viqarunnisa Noon School"),
		Batch:           utils.Ptr(4),
		Status:          utils.Ptr("paid"),
		IsReviewed:      true,
		HearAboutUs:     utils.Ptr("Facebook"),
		CreatedAt:       "2025-01-09T12:00:00Z",
		Guardians: []admissions.GuardianAPI{
			{ID: 3, Role: "MOTHER", Name: "Rokeya Chowdhury", EmailAddress: utils.Ptr("rokeya@example.com"), IsPrimaryContact: true},
		},
	})

	student, err := userRepo.GetByEmail(SeedStudentEmail)
	if err != nil {
		return errors.Wrap(err, "SeedApplications GetByEmail")
	}
	repo.Add(admissions.ApplicationAPI{
		StudentName:  "Tania Akter",
		DateOfBirth:  "2011-07-21",
		Sex:          "F",
		CurrentClass: "Class 9",
		Batch:        utils.Ptr(batch.ID),
		BatchDetail:  batch,
		StudentEmail: utils.Ptr(SeedStudentEmail),
		Status:       utils.Ptr("draft"),
		User:         utils.Ptr(student.ID),
		CreatedAt:    "2025-02-01T10:15:00Z",
	})
	return nil
}
