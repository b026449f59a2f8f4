package model

import "time"

// Blob — загруженный файл, хранимый в БД. Адресуется по содержимому:
// одинаковые байты сохраняются один раз.
type Blob struct {
	Key         string `gorm:"primaryKey"`            // имя файла в URL /uploads/{key}
	Hash        string `gorm:"not null;uniqueIndex"`  // BLAKE2b-256, hex
	ContentType string `gorm:"not null"`
	Size        int64  `gorm:"not null"`
	Data        []byte `gorm:"not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
