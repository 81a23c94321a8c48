package billing

import "time"

// InvoiceStatus reflects how much of the invoice has been paid.
type InvoiceStatus string

const (
	StatusBelumBayar InvoiceStatus = "belum_bayar"
	StatusSebagian   InvoiceStatus = "sebagian"
	StatusLunas      InvoiceStatus = "lunas"
)

// PaymentMethod is the closed set of accepted payment channels.
type PaymentMethod string

const (
	MethodTunai    PaymentMethod = "tunai"
	MethodTransfer PaymentMethod = "transfer"
	MethodDebit    PaymentMethod = "debit"
	MethodKredit   PaymentMethod = "kredit"
	MethodQRIS     PaymentMethod = "qris"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodTunai, MethodTransfer, MethodDebit, MethodKredit, MethodQRIS:
		return true
	}
	return false
}

// Invoice amounts are whole rupiah, int64.
type Invoice struct {
	ID                int64         `json:"id" db:"id"`
	NomorInvoice      string        `json:"nomor_invoice" db:"nomor_invoice"`
	PatientID         int64         `json:"patient_id" db:"patient_id"`
	AppointmentID     *int64        `json:"appointment_id,omitempty" db:"appointment_id"`
	Jumlah            int64         `json:"jumlah" db:"jumlah"`
	Deskripsi         *string       `json:"deskripsi,omitempty" db:"deskripsi"`
	Status            InvoiceStatus `json:"status" db:"status"`
	TanggalTerbit     string        `json:"tanggal_terbit" db:"tanggal_terbit"`
	TanggalJatuhTempo *string       `json:"tanggal_jatuh_tempo,omitempty" db:"tanggal_jatuh_tempo"`
	TotalDibayar      int64         `json:"total_dibayar" db:"-"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}

type Payment struct {
	ID                int64         `json:"id" db:"id"`
	InvoiceID         int64         `json:"invoice_id" db:"invoice_id"`
	Jumlah            int64         `json:"jumlah" db:"jumlah"`
	MetodePembayaran  PaymentMethod `json:"metode_pembayaran" db:"metode_pembayaran"`
	TanggalPembayaran string        `json:"tanggal_pembayaran" db:"tanggal_pembayaran"`
	DiterimaOleh      *int64        `json:"diterima_oleh,omitempty" db:"diterima_oleh"`
	Catatan           *string       `json:"catatan,omitempty" db:"catatan"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
}
