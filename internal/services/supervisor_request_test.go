package services

import (
	"net/http"
	"testing"

	"github.com/unihub/unihub/backend/internal/models"
)

func TestSupervisorRequest_Create(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupervisorRequestService(db)

	ownerUser, creator := createStudent(t, db, "owner@uni.edu", "s1")
	supervisorUser, supervisor := createSupervisor(t, db, "sup@uni.edu", "e1")
	project := createProject(t, db, creator, "Capstone")

	request, err := svc.Create(ownerUser.ID, &CreateSupervisorRequest{
		ProjectID:    project.ID,
		SupervisorID: supervisor.ID,
		Message:      "Would you supervise us?",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if request.Status != models.RequestPending {
		t.Errorf("status = %q, expected pending", request.Status)
	}

	// The supervisor is notified.
	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", supervisorUser.ID, models.NotificationSupervisionAsked).
		Count(&count)
	if count != 1 {
		t.Errorf("supervision notifications = %d, expected 1", count)
	}
}

func TestSupervisorRequest_CreateRejections(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupervisorRequestService(db)

	ownerUser, creator := createStudent(t, db, "owner@uni.edu", "s1")
	otherUser, _ := createStudent(t, db, "other@uni.edu", "s2")
	_, supervisor := createSupervisor(t, db, "sup@uni.edu", "e1")
	project := createProject(t, db, creator, "Capstone")

	// Unknown project.
	_, err := svc.Create(ownerUser.ID, &CreateSupervisorRequest{ProjectID: 9999, SupervisorID: supervisor.ID})
	if status := appStatus(t, err); status != http.StatusNotFound {
		t.Errorf("unknown project: status = %d, expected 404", status)
	}

	// Not the creator.
	_, err = svc.Create(otherUser.ID, &CreateSupervisorRequest{ProjectID: project.ID, SupervisorID: supervisor.ID})
	if status := appStatus(t, err); status != http.StatusForbidden {
		t.Errorf("non-creator: status = %d, expected 403", status)
	}

	// Invalid supervisor.
	_, err = svc.Create(ownerUser.ID, &CreateSupervisorRequest{ProjectID: project.ID, SupervisorID: 9999})
	if status := appStatus(t, err); status != http.StatusBadRequest {
		t.Errorf("invalid supervisor: status = %d, expected 400", status)
	}

	// Duplicate pending.
	if _, err := svc.Create(ownerUser.ID, &CreateSupervisorRequest{ProjectID: project.ID, SupervisorID: supervisor.ID}); err != nil {
		t.Fatalf("first request error = %v", err)
	}
	_, err = svc.Create(ownerUser.ID, &CreateSupervisorRequest{ProjectID: project.ID, SupervisorID: supervisor.ID})
	if status := appStatus(t, err); status != http.StatusConflict {
		t.Errorf("duplicate pending: status = %d, expected 409", status)
	}
}

func TestSupervisorRequest_AcceptAssignsSupervisor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupervisorRequestService(db)

	ownerUser, creator := createStudent(t, db, "owner@uni.edu", "s1")
	supervisorUser, supervisor := createSupervisor(t, db, "sup@uni.edu", "e1")
	project := createProject(t, db, creator, "Capstone")

	request, err := svc.Create(ownerUser.ID, &CreateSupervisorRequest{
		ProjectID:    project.ID,
		SupervisorID: supervisor.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.UpdateStatus(supervisorUser.ID, request.ID, &UpdateRequestStatus{Status: models.RequestAccepted})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status != models.RequestAccepted {
		t.Errorf("status = %q, expected accepted", updated.Status)
	}

	var stored models.Project
	db.First(&stored, project.ID)
	if stored.SupervisorID == nil || *stored.SupervisorID != supervisor.ID {
		t.Error("acceptance must assign the supervisor to the project")
	}

	// The creator is notified of the decision.
	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", ownerUser.ID, models.NotificationSupervisionResult).
		Count(&count)
	if count != 1 {
		t.Errorf("decision notifications = %d, expected 1", count)
	}
}

func TestSupervisorRequest_RejectLeavesProjectUnassigned(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupervisorRequestService(db)

	ownerUser, creator := createStudent(t, db, "owner@uni.edu", "s1")
	supervisorUser, supervisor := createSupervisor(t, db, "sup@uni.edu", "e1")
	project := createProject(t, db, creator, "Capstone")

	request, err := svc.Create(ownerUser.ID, &CreateSupervisorRequest{
		ProjectID:    project.ID,
		SupervisorID: supervisor.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.UpdateStatus(supervisorUser.ID, request.ID, &UpdateRequestStatus{Status: models.RequestRejected}); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	var stored models.Project
	db.First(&stored, project.ID)
	if stored.SupervisorID != nil {
		t.Error("rejection must not assign the supervisor")
	}
}

func TestSupervisorRequest_OnlyAddresseeResolves(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupervisorRequestService(db)

	ownerUser, creator := createStudent(t, db, "owner@uni.edu", "s1")
	_, supervisor := createSupervisor(t, db, "sup@uni.edu", "e1")
	otherSupUser, _ := createSupervisor(t, db, "sup2@uni.edu", "e2")
	project := createProject(t, db, creator, "Capstone")

	request, err := svc.Create(ownerUser.ID, &CreateSupervisorRequest{
		ProjectID:    project.ID,
		SupervisorID: supervisor.ID,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// A different supervisor cannot resolve it.
	_, err = svc.UpdateStatus(otherSupUser.ID, request.ID, &UpdateRequestStatus{Status: models.RequestAccepted})
	if status := appStatus(t, err); status != http.StatusForbidden {
		t.Errorf("wrong supervisor: status = %d, expected 403", status)
	}

	// The creator (no supervisor profile) cannot either.
	_, err = svc.UpdateStatus(ownerUser.ID, request.ID, &UpdateRequestStatus{Status: models.RequestAccepted})
	if status := appStatus(t, err); status != http.StatusForbidden {
		t.Errorf("creator resolve: status = %d, expected 403", status)
	}
}

func TestSupervisorRequest_Inbox(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSupervisorRequestService(db)

	ownerUser, creator := createStudent(t, db, "owner@uni.edu", "s1")
	supervisorUser, supervisor := createSupervisor(t, db, "sup@uni.edu", "e1")
	otherSupUser, _ := createSupervisor(t, db, "sup2@uni.edu", "e2")
	projectA := createProject(t, db, creator, "Project A")
	projectB := createProject(t, db, creator, "Project B")

	for _, pid := range []uint{projectA.ID, projectB.ID} {
		if _, err := svc.Create(ownerUser.ID, &CreateSupervisorRequest{ProjectID: pid, SupervisorID: supervisor.ID}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	inbox, err := svc.Inbox(supervisorUser.ID, models.RequestPending)
	if err != nil {
		t.Fatalf("Inbox() error = %v", err)
	}
	if len(inbox) != 2 {
		t.Errorf("inbox size = %d, expected 2", len(inbox))
	}

	empty, err := svc.Inbox(otherSupUser.ID, "")
	if err != nil {
		t.Fatalf("Inbox() error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("other inbox size = %d, expected 0", len(empty))
	}
}
