package appointments

import "time"

// Status is the appointment lifecycle state.
type Status string

const (
	StatusDijadwalkan Status = "dijadwalkan"
	StatusSelesai     Status = "selesai"
	StatusDibatalkan  Status = "dibatalkan"
	StatusTidakHadir  Status = "tidak_hadir"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDijadwalkan, StatusSelesai, StatusDibatalkan, StatusTidakHadir:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool {
	return s == StatusSelesai || s == StatusDibatalkan || s == StatusTidakHadir
}

type Appointment struct {
	ID             int64     `json:"id" db:"id"`
	PatientID      int64     `json:"patient_id" db:"patient_id"`
	FisioterapisID int64     `json:"fisioterapis_id" db:"fisioterapis_id"`
	TanggalWaktu   string    `json:"tanggal_waktu" db:"tanggal_waktu"`
	DurasiMenit    int       `json:"durasi_menit" db:"durasi_menit"`
	Status         Status    `json:"status" db:"status"`
	Catatan        *string   `json:"catatan,omitempty" db:"catatan"`
	NamaPasien     string    `json:"nama_pasien,omitempty" db:"-"`
	NamaTerapis    string    `json:"nama_terapis,omitempty" db:"-"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}
