package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/cache"
	"github.com/swasthsathi/telehealth-service/internal/events"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
	"github.com/swasthsathi/telehealth-service/internal/validator"
)

func newConsultationTestService() (ConsultationService, *mockRepository, *events.MockEventPublisher, *memFileStore) {
	repo := newMockRepository()
	publisher := events.NewMockEventPublisher(testLogger())
	files := newMemFileStore()
	svc := NewConsultationService(repo, nil, testLogger(), validator.New(), publisher, cache.NewCacheManager(nil), files)
	return svc, repo, publisher, files
}

func patientIdentity(id uint) auth.Identity {
	return auth.Identity{UserID: id, Name: "Patient", Role: models.RolePatient}
}

func doctorIdentity(id uint) auth.Identity {
	return auth.Identity{UserID: id, Name: "Doctor", Role: models.RoleDoctor}
}

func TestSubmitConsultation(t *testing.T) {
	svc, _, publisher, files := newConsultationTestService()
	ctx := context.Background()

	age := 34
	c, err := svc.Submit(ctx, patientIdentity(1), &models.SubmitConsultationRequest{
		PatientName: "Ravi Kumar",
		PatientAge:  &age,
		Symptoms:    "fever and cough for three days",
	}, &FileUpload{Filename: "rash.jpg", Content: strings.NewReader("jpeg bytes")})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if c.Status != models.StatusPending {
		t.Errorf("status = %s, want %s", c.Status, models.StatusPending)
	}
	if c.DoctorID != nil {
		t.Error("new consultation must not have a doctor")
	}
	if c.PhotoFilename == nil {
		t.Fatal("photo filename not recorded")
	}
	if _, err := files.Open(ctx, *c.PhotoFilename); err != nil {
		t.Errorf("stored photo missing: %v", err)
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.ConsultationSubmitted {
		t.Errorf("expected one %s event, got %+v", events.ConsultationSubmitted, published)
	}
}

func TestSubmitConsultationRequiresSymptoms(t *testing.T) {
	svc, _, _, _ := newConsultationTestService()

	_, err := svc.Submit(context.Background(), patientIdentity(1), &models.SubmitConsultationRequest{
		PatientName: "Ravi Kumar",
	}, nil)
	if err == nil {
		t.Fatal("expected validation error for missing symptoms")
	}
}

func TestClaimAssignsExactlyOneWinner(t *testing.T) {
	svc, _, _, _ := newConsultationTestService()
	ctx := context.Background()

	c, err := svc.Submit(ctx, patientIdentity(1), &models.SubmitConsultationRequest{
		PatientName: "Meena",
		Symptoms:    "persistent headache",
	}, nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	const doctors = 20
	var wg sync.WaitGroup
	errs := make([]error, doctors)
	for i := 0; i < doctors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Claim(ctx, doctorIdentity(uint(100+i)), c.ID)
		}(i)
	}
	wg.Wait()

	var winners, losers int
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrAlreadyClaimed):
			losers++
		default:
			t.Errorf("unexpected claim error: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("winners = %d, want exactly 1", winners)
	}
	if losers != doctors-1 {
		t.Errorf("losers = %d, want %d", losers, doctors-1)
	}
}

func TestClaimMissingConsultation(t *testing.T) {
	svc, _, _, _ := newConsultationTestService()

	_, err := svc.Claim(context.Background(), doctorIdentity(7), 999)
	if !errors.Is(err, ErrConsultationNotFound) {
		t.Errorf("Claim missing = %v, want ErrConsultationNotFound", err)
	}
}

func TestClaimRequiresDoctorRole(t *testing.T) {
	svc, _, _, _ := newConsultationTestService()

	_, err := svc.Claim(context.Background(), patientIdentity(1), 1)
	if !IsPermissionError(err) {
		t.Errorf("Claim as patient = %v, want permission error", err)
	}
}

func TestRespondClosesCase(t *testing.T) {
	svc, _, publisher, _ := newConsultationTestService()
	ctx := context.Background()

	c, _ := svc.Submit(ctx, patientIdentity(1), &models.SubmitConsultationRequest{
		PatientName: "Sunita",
		Symptoms:    "back pain",
	}, nil)

	doctor := doctorIdentity(50)
	if _, err := svc.Claim(ctx, doctor, c.ID); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	publisher.ClearEvents()
	reviewed, err := svc.Respond(ctx, doctor, c.ID, &models.RespondConsultationRequest{
		Response: "Take rest and hydrate. Visit PHC if pain persists.",
	}, &FileUpload{Filename: "advice.mp3", Content: strings.NewReader("audio")})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	if reviewed.Status != models.StatusReviewed {
		t.Errorf("status = %s, want %s", reviewed.Status, models.StatusReviewed)
	}
	if reviewed.DoctorResponse == nil || *reviewed.DoctorResponse == "" {
		t.Error("doctor response not recorded")
	}
	if reviewed.AudioNoteFilename == nil {
		t.Error("audio note filename not recorded")
	}

	published := publisher.GetPublishedEvents()
	if len(published) != 1 || published[0].Type != events.ConsultationReviewed {
		t.Errorf("expected one %s event, got %+v", events.ConsultationReviewed, published)
	}
}

func TestRespondRequiresAssignment(t *testing.T) {
	svc, _, _, _ := newConsultationTestService()
	ctx := context.Background()

	c, _ := svc.Submit(ctx, patientIdentity(1), &models.SubmitConsultationRequest{
		PatientName: "Kiran",
		Symptoms:    "sore throat",
	}, nil)

	// Responding before any claim fails.
	_, err := svc.Respond(ctx, doctorIdentity(5), c.ID, &models.RespondConsultationRequest{Response: "rest"}, nil)
	if !errors.Is(err, ErrNotAssigned) {
		t.Errorf("Respond unclaimed = %v, want ErrNotAssigned", err)
	}

	// Another doctor cannot respond to a case claimed by someone else.
	if _, err := svc.Claim(ctx, doctorIdentity(5), c.ID); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	_, err = svc.Respond(ctx, doctorIdentity(6), c.ID, &models.RespondConsultationRequest{Response: "rest"}, nil)
	if !errors.Is(err, ErrNotAssigned) {
		t.Errorf("Respond by other doctor = %v, want ErrNotAssigned", err)
	}
}

func TestRespondIsFinal(t *testing.T) {
	svc, _, _, _ := newConsultationTestService()
	ctx := context.Background()

	c, _ := svc.Submit(ctx, patientIdentity(1), &models.SubmitConsultationRequest{
		PatientName: "Asha",
		Symptoms:    "dizziness",
	}, nil)

	doctor := doctorIdentity(9)
	svc.Claim(ctx, doctor, c.ID)
	if _, err := svc.Respond(ctx, doctor, c.ID, &models.RespondConsultationRequest{Response: "first answer"}, nil); err != nil {
		t.Fatalf("first Respond: %v", err)
	}

	_, err := svc.Respond(ctx, doctor, c.ID, &models.RespondConsultationRequest{Response: "second answer"}, nil)
	if !errors.Is(err, ErrNotAssigned) {
		t.Errorf("second Respond = %v, want ErrNotAssigned", err)
	}
}

func TestConsultationVisibility(t *testing.T) {
	svc, _, _, _ := newConsultationTestService()
	ctx := context.Background()

	c, _ := svc.Submit(ctx, patientIdentity(1), &models.SubmitConsultationRequest{
		PatientName: "Ravi",
		Symptoms:    "joint pain",
	}, nil)

	if _, err := svc.GetByID(ctx, patientIdentity(1), c.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, patientIdentity(2), c.ID); !IsPermissionError(err) {
		t.Errorf("other patient read = %v, want permission error", err)
	}
	admin := auth.Identity{UserID: 99, Name: "Admin", Role: models.RoleAdmin}
	if _, err := svc.GetByID(ctx, admin, c.ID); err != nil {
		t.Errorf("admin read failed: %v", err)
	}

	// The assigned doctor gains visibility only after claiming.
	doctor := doctorIdentity(40)
	if _, err := svc.GetByID(ctx, doctor, c.ID); !IsPermissionError(err) {
		t.Errorf("unassigned doctor read = %v, want permission error", err)
	}
	svc.Claim(ctx, doctor, c.ID)
	if _, err := svc.GetByID(ctx, doctor, c.ID); err != nil {
		t.Errorf("assigned doctor read failed: %v", err)
	}
}

func TestListPendingOrderedOldestFirst(t *testing.T) {
	svc, _, _, _ := newConsultationTestService()
	ctx := context.Background()

	for _, symptoms := range []string{"first case", "second case", "third case"} {
		if _, err := svc.Submit(ctx, patientIdentity(1), &models.SubmitConsultationRequest{
			PatientName: "Ravi",
			Symptoms:    symptoms,
		}, nil); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	// Claimed cases drop out of the pending queue.
	if _, err := svc.Claim(ctx, doctorIdentity(3), 2); err != nil {
		t.Fatalf("Claim: %v", err)
	}

	pending, err := svc.ListPending(ctx, doctorIdentity(3))
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].Symptoms != "first case" || pending[1].Symptoms != "third case" {
		t.Errorf("pending order wrong: %q, %q", pending[0].Symptoms, pending[1].Symptoms)
	}

	if _, err := svc.ListPending(ctx, patientIdentity(1)); !IsPermissionError(err) {
		t.Errorf("ListPending as patient = %v, want permission error", err)
	}
}

func TestListAssignedScopedToDoctor(t *testing.T) {
	svc, _, _, _ := newConsultationTestService()
	ctx := context.Background()

	c1, _ := svc.Submit(ctx, patientIdentity(1), &models.SubmitConsultationRequest{PatientName: "A", Symptoms: "cough"}, nil)
	c2, _ := svc.Submit(ctx, patientIdentity(2), &models.SubmitConsultationRequest{PatientName: "B", Symptoms: "cold"}, nil)

	svc.Claim(ctx, doctorIdentity(10), c1.ID)
	svc.Claim(ctx, doctorIdentity(11), c2.ID)

	assigned, total, err := svc.ListAssigned(ctx, doctorIdentity(10), repositories.ConsultationFilters{})
	if err != nil {
		t.Fatalf("ListAssigned: %v", err)
	}
	if total != 1 || len(assigned) != 1 || assigned[0].ID != c1.ID {
		t.Errorf("ListAssigned = %d cases (total %d), want only case %d", len(assigned), total, c1.ID)
	}
}
