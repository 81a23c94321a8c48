package patients

import "time"

// Patient is the master record for a clinic patient. Dates are stored as
// ISO-8601 text (YYYY-MM-DD), matching the intake forms.
type Patient struct {
	ID                   int64     `json:"id" db:"id"`
	NomorPasien          string    `json:"nomor_pasien" db:"patient_id"`
	NamaLengkap          string    `json:"nama_lengkap" db:"nama_lengkap"`
	TanggalLahir         string    `json:"tanggal_lahir" db:"tanggal_lahir"`
	JenisKelamin         string    `json:"jenis_kelamin" db:"jenis_kelamin"`
	NoTelepon            *string   `json:"no_telepon,omitempty" db:"no_telepon"`
	Email                *string   `json:"email,omitempty" db:"email"`
	Alamat               *string   `json:"alamat,omitempty" db:"alamat"`
	KontakDarurat        *string   `json:"kontak_darurat,omitempty" db:"kontak_darurat"`
	TeleponDarurat       *string   `json:"telepon_darurat,omitempty" db:"telepon_darurat"`
	PersetujuanDiberikan bool      `json:"persetujuan_diberikan" db:"persetujuan_diberikan"`
	TanggalPersetujuan   *string   `json:"tanggal_persetujuan,omitempty" db:"tanggal_persetujuan"`
	GolonganDarah        string    `json:"golongan_darah" db:"blood_type"`
	Alergi               *string   `json:"alergi,omitempty" db:"allergies"`
	RiwayatMedis         *string   `json:"riwayat_medis,omitempty" db:"medical_history"`
	ObatSaatIni          *string   `json:"obat_saat_ini,omitempty" db:"current_medications"`
	CatatanDarurat       *string   `json:"catatan_darurat,omitempty" db:"emergency_notes"`
	CreatedBy            *int64    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}
