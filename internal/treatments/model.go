package treatments

import (
	"encoding/json"
	"time"
)

// PlanStatus is the treatment plan lifecycle state.
type PlanStatus string

const (
	StatusDirencanakan PlanStatus = "direncanakan"
	StatusBerlangsung  PlanStatus = "berlangsung"
	StatusSelesai      PlanStatus = "selesai"
	StatusDihentikan   PlanStatus = "dihentikan"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case StatusDirencanakan, StatusBerlangsung, StatusSelesai, StatusDihentikan:
		return true
	}
	return false
}

// TreatmentPlan describes the agreed course of therapy for one patient.
// Tujuan holds the goal list as a JSON array of strings.
type TreatmentPlan struct {
	ID                     int64           `json:"id" db:"id"`
	PatientID              int64           `json:"patient_id" db:"patient_id"`
	FisioterapisID         int64           `json:"fisioterapis_id" db:"fisioterapis_id"`
	Diagnosis              *string         `json:"diagnosis,omitempty" db:"diagnosis"`
	Tujuan                 json.RawMessage `json:"tujuan,omitempty" db:"tujuan"`
	JumlahSesiDirencanakan *int            `json:"jumlah_sesi_direncanakan,omitempty" db:"jumlah_sesi_direncanakan"`
	JumlahSesiSelesai      int             `json:"jumlah_sesi_selesai" db:"jumlah_sesi_selesai"`
	Status                 PlanStatus      `json:"status" db:"status"`
	TanggalMulai           *string         `json:"tanggal_mulai,omitempty" db:"tanggal_mulai"`
	TanggalSelesai         *string         `json:"tanggal_selesai,omitempty" db:"tanggal_selesai"`
	Catatan                *string         `json:"catatan,omitempty" db:"catatan"`
	CreatedAt              time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at" db:"updated_at"`
}
