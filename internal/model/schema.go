package model

import (
	"fmt"
	"strings"
)

// FieldKind - закрытый набор типов полей схемы.
type FieldKind int

const (
	// FieldKindOther - тип, который генератор не заполняет (числа, даты и т.п.).
	FieldKindOther FieldKind = iota
	FieldKindPlainText
	FieldKindRichText
	FieldKindTitle
	FieldKindAssetReference
)

// Целевые типы для AssetReference.
const (
	AssetTargetMedia = "media"
	AssetTargetImage = "image"
)

var fieldKindNames = map[FieldKind]string{
	FieldKindOther:          "other",
	FieldKindPlainText:      "plain_text",
	FieldKindRichText:       "rich_text",
	FieldKindTitle:          "title",
	FieldKindAssetReference: "asset_reference",
}

func (k FieldKind) String() string {
	if name, ok := fieldKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("field_kind(%d)", int(k))
}

// ParseFieldKind разбирает строковое представление типа поля.
// Неизвестные значения дают FieldKindOther.
func ParseFieldKind(s string) FieldKind {
	s = strings.ToLower(strings.TrimSpace(s))
	for kind, name := range fieldKindNames {
		if name == s {
			return kind
		}
	}
	return FieldKindOther
}

// MarshalText / UnmarshalText позволяют хранить тип как строку в JSON и YAML.
func (k FieldKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *FieldKind) UnmarshalText(text []byte) error {
	*k = ParseFieldKind(string(text))
	return nil
}

// FieldSpec описывает одно поле схемы контента.
type FieldSpec struct {
	Name            string    `json:"name" db:"name"`
	Label           string    `json:"label" db:"label"`
	Kind            FieldKind `json:"kind" db:"-"`
	AssetTargetKind string    `json:"assetTargetKind,omitempty" db:"asset_target_kind"`
}

// IsImageReference сообщает, может ли поле хранить сгенерированное изображение.
func (f FieldSpec) IsImageReference() bool {
	if f.Kind != FieldKindAssetReference {
		return false
	}
	switch f.AssetTargetKind {
	case "", AssetTargetMedia, AssetTargetImage:
		return true
	default:
		return false
	}
}

// ContentSchema - упорядоченный список полей. Ядро его не изменяет.
type ContentSchema struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Fields []FieldSpec `json:"fields"`
}
