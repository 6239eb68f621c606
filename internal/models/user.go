package models

import (
	"time"

	"github.com/google/uuid"
)

// Gender — внутренний enum.
type Gender int8

const (
	GenderUnspecified Gender = iota
	GenderMale
	GenderFemale
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	default:
		return "unspecified"
	}
}

// RegistrationStatus — производное состояние регистрации пользователя.
type RegistrationStatus string

const (
	RegistrationIncomplete RegistrationStatus = "incomplete"
	RegistrationNeedsPhoto RegistrationStatus = "needs_photo"
	RegistrationComplete   RegistrationStatus = "complete"
)

// User — поля пользователя, которые читает и меняет воркер.
type User struct {
	ID                 uuid.UUID
	Username           string
	Gender             Gender
	Region             string
	ProfilePhotoID     *uuid.UUID
	RegistrationStatus RegistrationStatus
	UpdatedAt          time.Time
}

// ComputeRegistrationStatus — чистая функция от остальных полей пользователя.
// Повторное применение даёт тот же результат.
func ComputeRegistrationStatus(u User) RegistrationStatus {
	if u.Username == "" || u.Gender == GenderUnspecified || u.Region == "" {
		return RegistrationIncomplete
	}

	if u.ProfilePhotoID == nil || *u.ProfilePhotoID == uuid.Nil {
		return RegistrationNeedsPhoto
	}

	return RegistrationComplete
}
