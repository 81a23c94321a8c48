package appointments

type CreateAppointmentRequest struct {
	PatientID      int64   `json:"patient_id" validate:"required,gt=0"`
	FisioterapisID int64   `json:"fisioterapis_id" validate:"required,gt=0"`
	TanggalWaktu   string  `json:"tanggal_waktu" validate:"required,datetime=2006-01-02T15:04"`
	DurasiMenit    *int    `json:"durasi_menit,omitempty" validate:"omitempty,gte=15,lte=240"`
	Catatan        *string `json:"catatan,omitempty" validate:"omitempty,max=1000"`
}

type UpdateAppointmentRequest struct {
	FisioterapisID *int64  `json:"fisioterapis_id,omitempty" validate:"omitempty,gt=0"`
	TanggalWaktu   *string `json:"tanggal_waktu,omitempty" validate:"omitempty,datetime=2006-01-02T15:04"`
	DurasiMenit    *int    `json:"durasi_menit,omitempty" validate:"omitempty,gte=15,lte=240"`
	Catatan        *string `json:"catatan,omitempty" validate:"omitempty,max=1000"`
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required,oneof=dijadwalkan selesai dibatalkan tidak_hadir"`
}

type ListAppointmentsRequest struct {
	// Tanggal filters on the calendar day (YYYY-MM-DD prefix match).
	Tanggal        *string `json:"tanggal,omitempty"`
	FisioterapisID *int64  `json:"fisioterapis_id,omitempty"`
	PatientID      *int64  `json:"patient_id,omitempty"`
	Status         *string `json:"status,omitempty"`
	Limit          int     `json:"limit" validate:"gte=0,lte=100"`
	Offset         int     `json:"offset" validate:"gte=0"`
}
