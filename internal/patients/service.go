package patients

import (
	"context"
	"fmt"
	"time"

	"github.com/fisioklinik/fisioklinik/internal/audit"
)

type Service struct {
	repo  Repository
	audit *audit.Writer
	now   func() time.Time
}

func NewService(repo Repository, auditWriter *audit.Writer) *Service {
	return &Service{repo: repo, audit: auditWriter, now: time.Now}
}

// Create assigns the next patient number and inserts the record in one
// transaction, so concurrent registrations can never collide on a number.
func (s *Service) Create(ctx context.Context, req CreatePatientRequest, createdBy int64) (*Patient, error) {
	patient := Patient{
		NamaLengkap:          req.NamaLengkap,
		TanggalLahir:         req.TanggalLahir,
		JenisKelamin:         req.JenisKelamin,
		NoTelepon:            req.NoTelepon,
		Email:                req.Email,
		Alamat:               req.Alamat,
		KontakDarurat:        req.KontakDarurat,
		TeleponDarurat:       req.TeleponDarurat,
		PersetujuanDiberikan: req.PersetujuanDiberikan,
		TanggalPersetujuan:   req.TanggalPersetujuan,
		GolonganDarah:        "unknown",
		Alergi:               req.Alergi,
		RiwayatMedis:         req.RiwayatMedis,
		ObatSaatIni:          req.ObatSaatIni,
		CatatanDarurat:       req.CatatanDarurat,
		CreatedBy:            &createdBy,
	}
	if req.GolonganDarah != nil {
		patient.GolonganDarah = *req.GolonganDarah
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		nomor, err := repo.NextNomorPasien(ctx, s.now().Year())
		if err != nil {
			return err
		}
		patient.NomorPasien = nomor
		patient.ID, err = repo.Create(ctx, patient)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}

	s.audit.RecordActivity(ctx, &createdBy, audit.ActionCreate, "patients", &patient.ID, nil, patient)
	return &patient, nil
}

func (s *Service) Get(ctx context.Context, actorID int64, id int64) (*Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// Viewing a medical record is itself an auditable event.
	s.audit.RecordActivity(ctx, &actorID, audit.ActionRead, "patients", &id, nil, nil)
	return patient, nil
}

func (s *Service) List(ctx context.Context, req ListPatientsRequest) ([]Patient, int, error) {
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, actorID int64, id int64, req UpdatePatientRequest) (*Patient, error) {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}

	updates := make(map[string]any)
	setStr := func(field string, v *string) {
		if v != nil {
			updates[field] = *v
		}
	}
	setStr("nama_lengkap", req.NamaLengkap)
	setStr("tanggal_lahir", req.TanggalLahir)
	setStr("jenis_kelamin", req.JenisKelamin)
	setStr("no_telepon", req.NoTelepon)
	setStr("email", req.Email)
	setStr("alamat", req.Alamat)
	setStr("kontak_darurat", req.KontakDarurat)
	setStr("telepon_darurat", req.TeleponDarurat)
	setStr("tanggal_persetujuan", req.TanggalPersetujuan)
	setStr("golongan_darah", req.GolonganDarah)
	setStr("alergi", req.Alergi)
	setStr("riwayat_medis", req.RiwayatMedis)
	setStr("obat_saat_ini", req.ObatSaatIni)
	setStr("catatan_darurat", req.CatatanDarurat)
	if req.PersetujuanDiberikan != nil {
		updates["persetujuan_diberikan"] = *req.PersetujuanDiberikan
	}

	if len(updates) == 0 {
		return before, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	after, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.audit.RecordActivity(ctx, &actorID, audit.ActionUpdate, "patients", &id, before, after)
	return after, nil
}

func (s *Service) Delete(ctx context.Context, actorID int64, id int64) error {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	s.audit.RecordActivity(ctx, &actorID, audit.ActionDelete, "patients", &id, before, nil)
	return nil
}
