package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// photoIDHexLen — длина hex-хвоста ключа объекта, содержащего id фото.
const photoIDHexLen = 32

var (
	// ErrMalformedKey — ключ объекта не оканчивается на 32 hex-символа UUID.
	ErrMalformedKey = errors.New("malformed object key")
	// ErrMalformedEvent — конверт уведомления не разбирается.
	ErrMalformedEvent = errors.New("malformed event envelope")
)

// Event — одно уведомление о загрузке, доведённое до воркера.
// Attempt — номер доставки (1 для первой), 0 — транспорт попытки не считает.
type Event struct {
	Key        string
	Bucket     string
	Sequencer  string
	Attempt    int
	ReceivedAt time.Time
}

// S3Event — логический конверт уведомления S3/MinIO.
type S3Event struct {
	Records []S3Record `json:"Records"`
}

// S3Record — одна запись уведомления.
type S3Record struct {
	EventName string   `json:"eventName"`
	EventTime string   `json:"eventTime"`
	S3        S3Entity `json:"s3"`
}

// S3Entity — описание бакета и объекта.
type S3Entity struct {
	Bucket S3Bucket `json:"bucket"`
	Object S3Object `json:"object"`
}

type S3Bucket struct {
	Name string `json:"name"`
}

type S3Object struct {
	Key       string `json:"key"`
	Size      int64  `json:"size"`
	Sequencer string `json:"sequencer"`
}

// DecodeS3Event разбирает конверт и возвращает по событию на каждую запись.
// Ключи в уведомлениях S3 URL-кодированы — декодируем.
func DecodeS3Event(data []byte) ([]Event, error) {
	var env S3Event
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if len(env.Records) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrMalformedEvent)
	}

	now := time.Now().UTC()
	events := make([]Event, 0, len(env.Records))

	for _, rec := range env.Records {
		key, err := url.QueryUnescape(rec.S3.Object.Key)
		if err != nil {
			key = rec.S3.Object.Key
		}

		events = append(events, Event{
			Key:        key,
			Bucket:     rec.S3.Bucket.Name,
			Sequencer:  rec.S3.Object.Sequencer,
			ReceivedAt: now,
		})
	}

	return events, nil
}

// ParsePhotoID извлекает id фото из последних 32 hex-символов ключа.
func ParsePhotoID(key string) (uuid.UUID, error) {
	if len(key) < photoIDHexLen {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}

	tail := key[len(key)-photoIDHexLen:]
	for i := 0; i < len(tail); i++ {
		if !isHex(tail[i]) {
			return uuid.Nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
		}
	}

	id, err := uuid.Parse(tail)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrMalformedKey, key)
	}

	return id, nil
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
