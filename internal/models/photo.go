// models содержит доменные сущности ingest-worker.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// promoPrefix — префикс имени файла промо-фото, не участвующего в лидербордах.
const promoPrefix = "pop"

// categoryRe — формат категории <g><region>, например "m310".
var categoryRe = regexp.MustCompile(`^[mf][0-9]{1,6}$`)

// Photo — авторитетная запись о фотографии.
// Строка создаётся upload-эндпоинтом до прихода уведомления;
// воркер меняет только флаги Uploaded и CopyComplete (монотонно false -> true).
type Photo struct {
	ID                uuid.UUID
	Category          string
	UserID            uuid.UUID
	PostDate          time.Time
	FileName          string
	SetAsProfilePhoto bool
	Uploaded          bool
	CopyComplete      bool
}

// IsPromo сообщает, что фото промо (file_name начинается с "pop").
func (p *Photo) IsPromo() bool {
	return strings.HasPrefix(p.FileName, promoPrefix)
}

// WantsProfile — нужно ли выставить фото как фото профиля владельца.
func (p *Photo) WantsProfile() bool {
	return p.IsPromo() || p.SetAsProfilePhoto
}

// ValidCategory проверяет формат категории.
func ValidCategory(category string) bool {
	return categoryRe.MatchString(category)
}
