package clinical

import "encoding/json"

type CreateAssessmentRequest struct {
	PatientID            int64   `json:"patient_id" validate:"required,gt=0"`
	TanggalAssessment    string  `json:"tanggal_assessment" validate:"required,datetime=2006-01-02"`
	KeluhanUtama         string  `json:"keluhan_utama" validate:"required,max=2000"`
	KondisiCedera        *string `json:"kondisi_cedera,omitempty" validate:"omitempty,max=2000"`
	BagianTubuhTerdampak *string `json:"bagian_tubuh_terdampak,omitempty" validate:"omitempty,max=200"`
	SkalaNyeri           *int    `json:"skala_nyeri,omitempty" validate:"omitempty,gte=0,lte=10"`
	CatatanROM           *string `json:"catatan_rom,omitempty" validate:"omitempty,max=2000"`
	CatatanTambahan      *string `json:"catatan_tambahan,omitempty" validate:"omitempty,max=2000"`
}

type UpdateAssessmentRequest struct {
	KeluhanUtama         *string `json:"keluhan_utama,omitempty" validate:"omitempty,max=2000"`
	KondisiCedera        *string `json:"kondisi_cedera,omitempty" validate:"omitempty,max=2000"`
	BagianTubuhTerdampak *string `json:"bagian_tubuh_terdampak,omitempty" validate:"omitempty,max=200"`
	SkalaNyeri           *int    `json:"skala_nyeri,omitempty" validate:"omitempty,gte=0,lte=10"`
	CatatanROM           *string `json:"catatan_rom,omitempty" validate:"omitempty,max=2000"`
	CatatanTambahan      *string `json:"catatan_tambahan,omitempty" validate:"omitempty,max=2000"`
}

type CreateSessionNoteRequest struct {
	AppointmentID     *int64  `json:"appointment_id,omitempty" validate:"omitempty,gt=0"`
	PatientID         int64   `json:"patient_id" validate:"required,gt=0"`
	TanggalSesi       string  `json:"tanggal_sesi" validate:"required,datetime=2006-01-02"`
	Subjective        string  `json:"subjective" validate:"required"`
	Objective         string  `json:"objective" validate:"required"`
	Assessment        string  `json:"assessment" validate:"required"`
	Plan              string  `json:"plan" validate:"required"`
	TindakanDilakukan *string `json:"tindakan_dilakukan,omitempty" validate:"omitempty,max=2000"`
	DurasiMenit       *int    `json:"durasi_menit,omitempty" validate:"omitempty,gte=15,lte=240"`
}

type CreateOutcomeMeasureRequest struct {
	PatientID     int64           `json:"patient_id" validate:"required,gt=0"`
	RecordedAt    string          `json:"recorded_at" validate:"required,datetime=2006-01-02"`
	MeasureType   string          `json:"measure_type" validate:"required,oneof=vas dash odi nprs sf36 womac custom"`
	Score         float64         `json:"score" validate:"gte=0"`
	MaxScore      *float64        `json:"max_score,omitempty" validate:"omitempty,gt=0"`
	BodyPart      *string         `json:"body_part,omitempty" validate:"omitempty,max=200"`
	Condition     *string         `json:"condition,omitempty" validate:"omitempty,max=200"`
	Responses     json.RawMessage `json:"responses,omitempty"`
	Interpretation *string        `json:"interpretation,omitempty" validate:"omitempty,max=2000"`
	Notes         *string         `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
