package patients

type CreatePatientRequest struct {
	NamaLengkap          string  `json:"nama_lengkap" validate:"required,max=200"`
	TanggalLahir         string  `json:"tanggal_lahir" validate:"required,datetime=2006-01-02"`
	JenisKelamin         string  `json:"jenis_kelamin" validate:"required,oneof=laki-laki perempuan"`
	NoTelepon            *string `json:"no_telepon,omitempty" validate:"omitempty,max=30"`
	Email                *string `json:"email,omitempty" validate:"omitempty,email"`
	Alamat               *string `json:"alamat,omitempty" validate:"omitempty,max=500"`
	KontakDarurat        *string `json:"kontak_darurat,omitempty" validate:"omitempty,max=200"`
	TeleponDarurat       *string `json:"telepon_darurat,omitempty" validate:"omitempty,max=30"`
	PersetujuanDiberikan bool    `json:"persetujuan_diberikan"`
	TanggalPersetujuan   *string `json:"tanggal_persetujuan,omitempty" validate:"omitempty,datetime=2006-01-02"`
	GolonganDarah        *string `json:"golongan_darah,omitempty" validate:"omitempty,oneof=A B AB O unknown"`
	Alergi               *string `json:"alergi,omitempty"`
	RiwayatMedis         *string `json:"riwayat_medis,omitempty"`
	ObatSaatIni          *string `json:"obat_saat_ini,omitempty"`
	CatatanDarurat       *string `json:"catatan_darurat,omitempty"`
}

type UpdatePatientRequest struct {
	NamaLengkap          *string `json:"nama_lengkap,omitempty" validate:"omitempty,max=200"`
	TanggalLahir         *string `json:"tanggal_lahir,omitempty" validate:"omitempty,datetime=2006-01-02"`
	JenisKelamin         *string `json:"jenis_kelamin,omitempty" validate:"omitempty,oneof=laki-laki perempuan"`
	NoTelepon            *string `json:"no_telepon,omitempty" validate:"omitempty,max=30"`
	Email                *string `json:"email,omitempty" validate:"omitempty,email"`
	Alamat               *string `json:"alamat,omitempty" validate:"omitempty,max=500"`
	KontakDarurat        *string `json:"kontak_darurat,omitempty" validate:"omitempty,max=200"`
	TeleponDarurat       *string `json:"telepon_darurat,omitempty" validate:"omitempty,max=30"`
	PersetujuanDiberikan *bool   `json:"persetujuan_diberikan,omitempty"`
	TanggalPersetujuan   *string `json:"tanggal_persetujuan,omitempty" validate:"omitempty,datetime=2006-01-02"`
	GolonganDarah        *string `json:"golongan_darah,omitempty" validate:"omitempty,oneof=A B AB O unknown"`
	Alergi               *string `json:"alergi,omitempty"`
	RiwayatMedis         *string `json:"riwayat_medis,omitempty"`
	ObatSaatIni          *string `json:"obat_saat_ini,omitempty"`
	CatatanDarurat       *string `json:"catatan_darurat,omitempty"`
}

type ListPatientsRequest struct {
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=100"`
	Offset int     `json:"offset" validate:"gte=0"`
}
