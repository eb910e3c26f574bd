package repository

import (
	"testing"
	"time"

	"clinic-server/internal/models"
)

func TestClientPatchChangesOnlySuppliedFields(t *testing.T) {
	phone := "+79161234567"
	patch := ClientPatch{PhoneNumber: &phone}

	changes := patch.Changes()
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d: %v", len(changes), changes)
	}
	if changes["phone_number"] != phone {
		t.Errorf("expected phone_number=%q, got %v", phone, changes["phone_number"])
	}
}

func TestClientPatchEmptyMeansNoChanges(t *testing.T) {
	if changes := (ClientPatch{}).Changes(); len(changes) != 0 {
		t.Errorf("empty patch produced changes: %v", changes)
	}
}

func TestClientPatchZeroValueIsExplicitOverwrite(t *testing.T) {
	empty := ""
	patch := ClientPatch{Patronymic: &empty}

	changes := patch.Changes()
	if v, ok := changes["patronymic"]; !ok || v != "" {
		t.Errorf("expected explicit empty patronymic, got %v", changes)
	}
}

func TestDoctorPatchChanges(t *testing.T) {
	speciality := "Cardiology"
	patch := DoctorPatch{Speciality: &speciality}

	changes := patch.Changes()
	if len(changes) != 1 || changes["speciality"] != speciality {
		t.Errorf("unexpected changes: %v", changes)
	}
}

func TestVisitPatchChanges(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	cost := 1500.0
	status := models.StatusPaid
	patch := VisitPatch{StartDate: &start, Cost: &cost, Status: &status}

	changes := patch.Changes()
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d: %v", len(changes), changes)
	}
	if changes["start_date"] != start || changes["cost"] != cost || changes["status"] != status {
		t.Errorf("unexpected changes: %v", changes)
	}
	for _, absent := range []string{"client_id", "doctor_id", "end_date", "cabinet", "procedure"} {
		if _, ok := changes[absent]; ok {
			t.Errorf("field %s must not appear in the change set", absent)
		}
	}
}
