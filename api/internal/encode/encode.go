package encode

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// ErrEncode — исходный блоб не удалось открыть или вычитать.
var ErrEncode = errors.New("encode: read failed")

// Source — выбранное пользователем изображение: имя, заявленный media type
// и «файловый хэндл». MIME берётся из метаданных файла и не сниффается.
type Source struct {
	Name string
	MIME string
	Open func() (io.ReadCloser, error)
}

// Bytes — источник поверх уже скачанных байтов (телеграм-поверхность).
func Bytes(name, mime string, data []byte) Source {
	return Source{
		Name: name,
		MIME: mime,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// EncodedImage — транспортная форма изображения. Создаётся заново на каждый
// запрос, не кэшируется и не переиспользуется.
type EncodedImage struct {
	Data []byte
	MIME string
}

// DataURL возвращает data:URI для движков, говорящих через image_url.
func (e EncodedImage) DataURL() string {
	return "data:" + e.MIME + ";base64," + base64.StdEncoding.EncodeToString(e.Data)
}

// Encode вычитывает блоб целиком. Контент не валидируется — любые байты
// проходят как есть. Ошибка чтения оборачивается в ErrEncode и уходит
// наверх, оркестратор переведёт её в Failed.
func Encode(ctx context.Context, src Source) (EncodedImage, error) {
	if err := ctx.Err(); err != nil {
		return EncodedImage{}, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if src.Open == nil {
		return EncodedImage{}, fmt.Errorf("%w: nil source (%s)", ErrEncode, src.Name)
	}
	rc, err := src.Open()
	if err != nil {
		return EncodedImage{}, fmt.Errorf("%w: %s: %v", ErrEncode, src.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return EncodedImage{}, fmt.Errorf("%w: %s: %v", ErrEncode, src.Name, err)
	}
	return EncodedImage{Data: data, MIME: src.MIME}, nil
}
