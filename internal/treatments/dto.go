package treatments

import "encoding/json"

type CreatePlanRequest struct {
	PatientID              int64           `json:"patient_id" validate:"required,gt=0"`
	Diagnosis              *string         `json:"diagnosis,omitempty" validate:"omitempty,max=2000"`
	Tujuan                 json.RawMessage `json:"tujuan,omitempty"`
	JumlahSesiDirencanakan *int            `json:"jumlah_sesi_direncanakan,omitempty" validate:"omitempty,gt=0,lte=200"`
	TanggalMulai           *string         `json:"tanggal_mulai,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TanggalSelesai         *string         `json:"tanggal_selesai,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Catatan                *string         `json:"catatan,omitempty" validate:"omitempty,max=2000"`
}

type UpdatePlanRequest struct {
	Diagnosis              *string         `json:"diagnosis,omitempty" validate:"omitempty,max=2000"`
	Tujuan                 json.RawMessage `json:"tujuan,omitempty"`
	JumlahSesiDirencanakan *int            `json:"jumlah_sesi_direncanakan,omitempty" validate:"omitempty,gt=0,lte=200"`
	Status                 *string         `json:"status,omitempty" validate:"omitempty,oneof=direncanakan berlangsung selesai dihentikan"`
	TanggalMulai           *string         `json:"tanggal_mulai,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TanggalSelesai         *string         `json:"tanggal_selesai,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Catatan                *string         `json:"catatan,omitempty" validate:"omitempty,max=2000"`
}
