package clinical

import (
	"encoding/json"
	"time"
)

// MeasureType is the closed set of supported outcome instruments.
type MeasureType string

const (
	MeasureVAS    MeasureType = "vas"
	MeasureDASH   MeasureType = "dash"
	MeasureODI    MeasureType = "odi"
	MeasureNPRS   MeasureType = "nprs"
	MeasureSF36   MeasureType = "sf36"
	MeasureWOMAC  MeasureType = "womac"
	MeasureCustom MeasureType = "custom"
)

func (m MeasureType) Valid() bool {
	switch m {
	case MeasureVAS, MeasureDASH, MeasureODI, MeasureNPRS, MeasureSF36, MeasureWOMAC, MeasureCustom:
		return true
	}
	return false
}

// Assessment is the initial clinical examination of a patient.
type Assessment struct {
	ID                   int64     `json:"id" db:"id"`
	PatientID            int64     `json:"patient_id" db:"patient_id"`
	FisioterapisID       int64     `json:"fisioterapis_id" db:"fisioterapis_id"`
	TanggalAssessment    string    `json:"tanggal_assessment" db:"tanggal_assessment"`
	KeluhanUtama         string    `json:"keluhan_utama" db:"keluhan_utama"`
	KondisiCedera        *string   `json:"kondisi_cedera,omitempty" db:"kondisi_cedera"`
	BagianTubuhTerdampak *string   `json:"bagian_tubuh_terdampak,omitempty" db:"bagian_tubuh_terdampak"`
	SkalaNyeri           *int      `json:"skala_nyeri,omitempty" db:"skala_nyeri"`
	CatatanROM           *string   `json:"catatan_rom,omitempty" db:"catatan_rom"`
	CatatanTambahan      *string   `json:"catatan_tambahan,omitempty" db:"catatan_tambahan"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// SessionNote is a SOAP-structured record of one therapy session.
type SessionNote struct {
	ID                int64     `json:"id" db:"id"`
	AppointmentID     *int64    `json:"appointment_id,omitempty" db:"appointment_id"`
	PatientID         int64     `json:"patient_id" db:"patient_id"`
	FisioterapisID    int64     `json:"fisioterapis_id" db:"fisioterapis_id"`
	TanggalSesi       string    `json:"tanggal_sesi" db:"tanggal_sesi"`
	Subjective        string    `json:"subjective" db:"subjective"`
	Objective         string    `json:"objective" db:"objective"`
	Assessment        string    `json:"assessment" db:"assessment"`
	Plan              string    `json:"plan" db:"plan"`
	TindakanDilakukan *string   `json:"tindakan_dilakukan,omitempty" db:"tindakan_dilakukan"`
	DurasiMenit       int       `json:"durasi_menit" db:"durasi_menit"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// OutcomeMeasure is a scored instrument result. Responses carries the raw
// per-question answers as a JSON object, validated before storage.
type OutcomeMeasure struct {
	ID            int64           `json:"id" db:"id"`
	PatientID     int64           `json:"patient_id" db:"patient_id"`
	RecordedBy    int64           `json:"recorded_by" db:"recorded_by"`
	RecordedAt    string          `json:"recorded_at" db:"recorded_at"`
	MeasureType   MeasureType     `json:"measure_type" db:"measure_type"`
	Score         float64         `json:"score" db:"score"`
	MaxScore      *float64        `json:"max_score,omitempty" db:"max_score"`
	BodyPart      *string         `json:"body_part,omitempty" db:"body_part"`
	Condition     *string         `json:"condition,omitempty" db:"condition"`
	Responses     json.RawMessage `json:"responses,omitempty" db:"responses"`
	Interpretation *string        `json:"interpretation,omitempty" db:"interpretation"`
	Notes         *string         `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
