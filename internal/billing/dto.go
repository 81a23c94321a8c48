package billing

type CreateInvoiceRequest struct {
	PatientID         int64   `json:"patient_id" validate:"required,gt=0"`
	AppointmentID     *int64  `json:"appointment_id,omitempty" validate:"omitempty,gt=0"`
	Jumlah            int64   `json:"jumlah" validate:"required,gt=0"`
	Deskripsi         *string `json:"deskripsi,omitempty" validate:"omitempty,max=1000"`
	TanggalTerbit     string  `json:"tanggal_terbit" validate:"required,datetime=2006-01-02"`
	TanggalJatuhTempo *string `json:"tanggal_jatuh_tempo,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type RecordPaymentRequest struct {
	Jumlah            int64   `json:"jumlah" validate:"required,gt=0"`
	MetodePembayaran  string  `json:"metode_pembayaran" validate:"required,oneof=tunai transfer debit kredit qris"`
	TanggalPembayaran string  `json:"tanggal_pembayaran" validate:"required,datetime=2006-01-02"`
	Catatan           *string `json:"catatan,omitempty" validate:"omitempty,max=1000"`
}

type ListInvoicesRequest struct {
	PatientID *int64  `json:"patient_id,omitempty"`
	Status    *string `json:"status,omitempty"`
	Limit     int     `json:"limit" validate:"gte=0,lte=100"`
	Offset    int     `json:"offset" validate:"gte=0"`
}
