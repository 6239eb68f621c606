// blobstore — адаптер объектного хранилища для воркера:
// выкачивает исходник из incoming-бакета в локальный scratch,
// публикует превью в served-бакет и убирает scratch.
//
// Scratch-путь: <scratch_dir>/<pid>/<photo_id>. Каталог процесса не пересекается
// с другими процессами на общем диске, а запись идёт через temp-файл + fsync +
// atomic rename, поэтому конкурентные задачи одного процесса над одним ключом
// видят либо полный файл, либо никакого.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/pribylovaa/photo-tournament/internal/storage"
)

// Adapter — scratch-кэш поверх storage.Blobs.
type Adapter struct {
	blobs storage.Blobs
	// dir — каталог scratch данного процесса.
	dir string
}

// New создаёт адаптер и каталог <scratchDir>/<pid>.
func New(blobs storage.Blobs, scratchDir string) (*Adapter, error) {
	const op = "blobstore/New"

	dir := filepath.Join(scratchDir, strconv.Itoa(os.Getpid()))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Adapter{blobs: blobs, dir: dir}, nil
}

// ScratchPath возвращает детерминированный путь исходника фото.
func (a *Adapter) ScratchPath(photoID uuid.UUID) string {
	return filepath.Join(a.dir, photoID.String())
}

// Cached сообщает, лежит ли исходник уже в scratch.
func (a *Adapter) Cached(photoID uuid.UUID) (string, bool) {
	path := a.ScratchPath(photoID)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return path, false
	}

	return path, true
}

// Fetch стримит incoming/<key> в scratch и возвращает локальный путь.
// При любой ошибке частичный файл удаляется до возврата ошибки.
func (a *Adapter) Fetch(ctx context.Context, key string, photoID uuid.UUID) (string, error) {
	const op = "blobstore/Fetch"

	rc, err := a.blobs.OpenIncoming(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer rc.Close()

	path := a.ScratchPath(photoID)

	tmp, err := os.CreateTemp(a.dir, photoID.String()+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%s: create temp: %w", op, err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := io.Copy(tmp, ctxReader{ctx: ctx, r: rc}); err != nil {
		cleanup()
		return "", fmt.Errorf("%s: copy: %w", op, err)
	}

	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", fmt.Errorf("%s: fsync: %w", op, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%s: close: %w", op, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%s: rename: %w", op, err)
	}

	return path, nil
}

// Publish кладёт байты превью в served-бакет под ключом key.
func (a *Adapter) Publish(ctx context.Context, key string, data []byte, contentType string) error {
	const op = "blobstore/Publish"

	if err := a.blobs.PutServed(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// URL — публичный адрес объекта served-бакета.
func (a *Adapter) URL(key string) string {
	return a.blobs.ServedURL(key)
}

// RemoveLocal удаляет файл scratch. Отсутствующий файл — не ошибка.
func (a *Adapter) RemoveLocal(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("blobstore/RemoveLocal: %w", err)
	}

	return nil
}

// ctxReader прерывает копирование при отмене контекста.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}
