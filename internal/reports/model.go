package reports

// MonthlyRevenue is the paid amount received during one calendar month.
type MonthlyRevenue struct {
	Bulan           string `json:"bulan"`
	Jumlah          int64  `json:"jumlah"`
	JumlahRupiah    string `json:"jumlah_rupiah"`
	JumlahTransaksi int    `json:"jumlah_transaksi"`
}

// StatusCount tallies appointments per lifecycle state.
type StatusCount struct {
	Status string `json:"status"`
	Total  int64  `json:"total"`
}

// NewPatients counts registrations per calendar month.
type NewPatients struct {
	Bulan string `json:"bulan"`
	Total int64  `json:"total"`
}

// TherapistLoad summarises one clinician's completed work in a period.
type TherapistLoad struct {
	FisioterapisID int64  `json:"fisioterapis_id"`
	NamaLengkap    string `json:"nama_lengkap"`
	JumlahJanji    int64  `json:"jumlah_janji"`
	JumlahSesi     int64  `json:"jumlah_sesi"`
}

// Summary is the dashboard aggregate for a date range.
type Summary struct {
	Pendapatan   []MonthlyRevenue `json:"pendapatan"`
	StatusJanji  []StatusCount    `json:"status_janji"`
	PasienBaru   []NewPatients    `json:"pasien_baru"`
	BebanTerapis []TherapistLoad  `json:"beban_terapis"`
}
