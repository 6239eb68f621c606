// storage содержит контракты слоя хранилищ ingest-worker.
//
// Хранилища не ретраят и не классифицируют ошибки: известные условия
// маппятся в sentinel-ошибки ниже, всё остальное возвращается как есть,
// решение retry/dead_letter принимает воркер.
//
// photos.go - запись фото и монотонные флаги uploaded/copy_complete.
// leaderboards.go - вставка в пять оконных лидербордов и счётчики.
// users.go - указатель на фото профиля и статус регистрации.
// feed.go - элементы ленты.
// blobs.go - объектное хранилище (incoming/served).
package storage

import "errors"

var (
	// ErrPhotoNotFound — запись фото отсутствует.
	ErrPhotoNotFound = errors.New("photo not found")
	// ErrUserNotFound — пользователь отсутствует.
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyExists — запись с тем же первичным ключом уже существует.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument — нарушены ограничения запроса.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrSourceMissing — исходный объект отсутствует в incoming-бакете.
	ErrSourceMissing = errors.New("source object missing")
	// ErrTransient — временный отказ (квота/троттлинг); используется in-memory реализацией.
	ErrTransient = errors.New("transient failure")
)
