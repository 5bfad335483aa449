package services

import (
	"context"
	"errors"
	"testing"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/cache"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
	"github.com/swasthsathi/telehealth-service/internal/validator"
)

func newHouseholdTestService() HouseholdService {
	repo := newMockRepository()
	return NewHouseholdService(repo, nil, testLogger(), validator.New(), cache.NewCacheManager(nil))
}

func ashaIdentity(id uint) auth.Identity {
	return auth.Identity{UserID: id, Name: "ASHA Worker", Role: models.RoleAsha}
}

func householdReq(name string) *models.HouseholdRequest {
	return &models.HouseholdRequest{Name: name, Address: "Ward 4, Rampur", MembersCount: 5}
}

func TestHouseholdLifecycle(t *testing.T) {
	svc := newHouseholdTestService()
	ctx := context.Background()
	worker := ashaIdentity(3)

	created, err := svc.Create(ctx, worker, householdReq("Sharma Family"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.AshaID != worker.UserID {
		t.Errorf("AshaID = %d, want %d", created.AshaID, worker.UserID)
	}
	if created.IsVerified {
		t.Error("new household should not be verified")
	}

	updated, err := svc.Update(ctx, worker, created.ID, &models.HouseholdRequest{Name: "Sharma Family", Address: "Ward 5, Rampur", MembersCount: 6})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Address != "Ward 5, Rampur" || updated.MembersCount != 6 {
		t.Errorf("update not applied: %+v", updated)
	}

	verified, err := svc.Verify(ctx, worker, created.ID)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !verified.IsVerified {
		t.Error("household not marked verified")
	}

	if err := svc.Delete(ctx, worker, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, worker, created.ID); !errors.Is(err, ErrHouseholdNotFound) {
		t.Errorf("Get after delete = %v, want ErrHouseholdNotFound", err)
	}
}

func TestHouseholdScopedToOwner(t *testing.T) {
	svc := newHouseholdTestService()
	ctx := context.Background()
	owner := ashaIdentity(3)
	other := ashaIdentity(7)

	created, err := svc.Create(ctx, owner, householdReq("Devi Family"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(ctx, other, created.ID); !IsPermissionError(err) {
		t.Errorf("foreign Get = %v, want permission error", err)
	}
	if _, err := svc.Update(ctx, other, created.ID, householdReq("Hijacked")); !IsPermissionError(err) {
		t.Errorf("foreign Update = %v, want permission error", err)
	}
	if err := svc.Delete(ctx, other, created.ID); !IsPermissionError(err) {
		t.Errorf("foreign Delete = %v, want permission error", err)
	}
	if _, err := svc.Verify(ctx, other, created.ID); !IsPermissionError(err) {
		t.Errorf("foreign Verify = %v, want permission error", err)
	}

	households, total, err := svc.List(ctx, other, repositories.HouseholdFilters{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 || len(households) != 0 {
		t.Errorf("other worker sees %d households, want 0", total)
	}
}

func TestHouseholdValidation(t *testing.T) {
	svc := newHouseholdTestService()

	if _, err := svc.Create(context.Background(), ashaIdentity(3), householdReq("")); err == nil {
		t.Fatal("expected validation error for empty household name")
	}
}

func TestMCHRecordCreateAndList(t *testing.T) {
	svc := newHouseholdTestService()
	ctx := context.Background()
	worker := ashaIdentity(3)

	created, err := svc.CreateRecord(ctx, worker, &models.MCHRecordRequest{
		PatientID:     9,
		RecordType:    "antenatal",
		RecordDetails: "First trimester checkup",
	})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if created.AshaID != worker.UserID {
		t.Errorf("AshaID = %d, want %d", created.AshaID, worker.UserID)
	}

	got, err := svc.GetRecord(ctx, worker, created.ID)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got.RecordDetails != "First trimester checkup" {
		t.Errorf("RecordDetails = %q", got.RecordDetails)
	}

	records, total, err := svc.ListRecords(ctx, worker, repositories.MCHFilters{})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Errorf("ListRecords total = %d, want 1", total)
	}

	if _, err := svc.GetRecord(ctx, worker, 9999); !errors.Is(err, ErrMCHRecordNotFound) {
		t.Errorf("GetRecord(missing) = %v, want ErrMCHRecordNotFound", err)
	}
}

func TestMCHRecordScopedToOwner(t *testing.T) {
	svc := newHouseholdTestService()
	ctx := context.Background()
	owner := ashaIdentity(3)
	other := ashaIdentity(7)

	created, err := svc.CreateRecord(ctx, owner, &models.MCHRecordRequest{PatientID: 9, RecordType: "immunization"})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	if _, err := svc.GetRecord(ctx, other, created.ID); !IsPermissionError(err) {
		t.Errorf("foreign GetRecord = %v, want permission error", err)
	}
	records, total, err := svc.ListRecords(ctx, other, repositories.MCHFilters{})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if total != 0 || len(records) != 0 {
		t.Errorf("other worker sees %d records, want 0", total)
	}
}

func TestMCHRecordSummary(t *testing.T) {
	svc := newHouseholdTestService()
	ctx := context.Background()
	worker := ashaIdentity(3)
	other := ashaIdentity(7)

	for _, rt := range []string{"antenatal", "antenatal", "immunization"} {
		if _, err := svc.CreateRecord(ctx, worker, &models.MCHRecordRequest{PatientID: 9, RecordType: rt}); err != nil {
			t.Fatalf("CreateRecord(%s): %v", rt, err)
		}
	}
	if _, err := svc.CreateRecord(ctx, other, &models.MCHRecordRequest{PatientID: 11, RecordType: "antenatal"}); err != nil {
		t.Fatalf("CreateRecord(other): %v", err)
	}

	summary, err := svc.RecordSummary(ctx, worker)
	if err != nil {
		t.Fatalf("RecordSummary: %v", err)
	}
	if summary.Total != 3 {
		t.Errorf("Total = %d, want 3", summary.Total)
	}
	if summary.RecordsByType["antenatal"] != 2 || summary.RecordsByType["immunization"] != 1 {
		t.Errorf("RecordsByType = %+v", summary.RecordsByType)
	}
}
