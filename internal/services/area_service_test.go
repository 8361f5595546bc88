package services

import (
	"testing"

	"arbor/internal/testutil"
)

func TestCreateArea(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAreaService(db)

	area, err := svc.CreateArea("Fitness", "physical training", "dumbbell", "#FF0000", 1)
	testutil.AssertNoError(t, err)
	if area.ID == "" {
		t.Error("expected generated ID")
	}

	_, err = svc.CreateArea("", "", "", "", 0)
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.CreateArea("Fitness", "", "", "", 0)
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestGetAreasOrdering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAreaService(db)

	if _, err := svc.CreateArea("Later", "", "", "", 2); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateArea("Sooner", "", "", "", 1); err != nil {
		t.Fatal(err)
	}

	areas, err := svc.GetAreas()
	testutil.AssertNoError(t, err)
	if len(areas) != 2 || areas[0].Name != "Sooner" {
		t.Errorf("areas not ordered by sort_order: %+v", areas)
	}
}

func TestUpdateArea(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAreaService(db)

	area := testutil.CreateTestArea(t, db)

	updated, err := svc.UpdateArea(area.ID, "Renamed", "", "", "#00FF00", nil)
	testutil.AssertNoError(t, err)
	fetched, err := svc.GetAreaByID(updated.ID)
	testutil.AssertNoError(t, err)
	if fetched.Name != "Renamed" || fetched.Color != "#00FF00" {
		t.Errorf("update not applied: %+v", fetched)
	}

	_, err = svc.UpdateArea("00000000-0000-0000-0000-000000000000", "X", "", "", "", nil)
	testutil.AssertAppError(t, err, "AREA_NOT_FOUND")
}

func TestDeleteAreaInUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewAreaService(db)

	area := testutil.CreateTestArea(t, db)
	cat := testutil.CreateTestCategory(t, db, area.ID)

	err := svc.DeleteArea(area.ID)
	testutil.AssertAppError(t, err, "AREA_IN_USE")

	if err := db.Delete(cat).Error; err != nil {
		t.Fatal(err)
	}
	testutil.AssertNoError(t, svc.DeleteArea(area.ID))

	_, err = svc.GetAreaByID(area.ID)
	testutil.AssertAppError(t, err, "AREA_NOT_FOUND")
}
