package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordState - состояние записи в процессе генерации.
type RecordState string

const (
	RecordStateDraft      RecordState = "draft"
	RecordStatePopulating RecordState = "populating"
	RecordStateCommitted  RecordState = "committed"
	RecordStateRolledBack RecordState = "rolled_back"
)

// DraftTitle - временный заголовок до заполнения полей.
const DraftTitle = "Generating..."

// Формат значений текстовых полей.
const FormatFullHTML = "full_html"

// FieldValue - значение одного поля записи.
type FieldValue struct {
	Value   string     `json:"value,omitempty" db:"value"`
	Format  string     `json:"format,omitempty" db:"format"`
	AssetID *uuid.UUID `json:"assetId,omitempty" db:"asset_id"`
	Alt     string     `json:"alt,omitempty" db:"alt"`
}

// DraftRecord - запись, которая еще не закоммичена.
// Принадлежит одной попытке генерации и не разделяется между итерациями.
type DraftRecord struct {
	// ID пустой, пока запись не сохранена в хранилище.
	ID        uuid.UUID
	SchemaID  string
	Title     string
	OwnerID   uuid.UUID
	Fields    map[string]FieldValue
	CreatedAt time.Time

	state RecordState
}

// NewDraftRecord создает черновик с временным заголовком.
func NewDraftRecord(schemaID string, ownerID uuid.UUID) *DraftRecord {
	return &DraftRecord{
		SchemaID: schemaID,
		Title:    DraftTitle,
		OwnerID:  ownerID,
		Fields:   make(map[string]FieldValue),
		state:    RecordStateDraft,
	}
}

// State возвращает текущее состояние черновика.
func (r *DraftRecord) State() RecordState {
	return r.state
}

// Persisted сообщает, существует ли запись в хранилище (возможно, неполная).
func (r *DraftRecord) Persisted() bool {
	return r.ID != uuid.Nil
}

// SetField задает значение поля.
func (r *DraftRecord) SetField(name string, value FieldValue) {
	r.Fields[name] = value
}

var allowedTransitions = map[RecordState][]RecordState{
	RecordStateDraft:      {RecordStatePopulating, RecordStateRolledBack},
	RecordStatePopulating: {RecordStateCommitted, RecordStateRolledBack},
}

// Transition переводит черновик в следующее состояние.
// Committed и RolledBack терминальные.
func (r *DraftRecord) Transition(to RecordState) error {
	for _, allowed := range allowedTransitions[r.state] {
		if allowed == to {
			r.state = to
			return nil
		}
	}
	return fmt.Errorf("invalid record transition %s -> %s", r.state, to)
}

// ContentRecord - закоммиченная запись в том виде, в котором ее читают из хранилища.
type ContentRecord struct {
	ID        uuid.UUID             `json:"id" db:"id"`
	SchemaID  string                `json:"schemaId" db:"schema_id"`
	Title     string                `json:"title" db:"title"`
	OwnerID   uuid.UUID             `json:"ownerId" db:"owner_id"`
	Status    RecordState           `json:"status" db:"status"`
	CreatedAt time.Time             `json:"createdAt" db:"created_at"`
	Fields    map[string]FieldValue `json:"fields" db:"-"`
}
