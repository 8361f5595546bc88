package services

import (
	"testing"

	"arbor/internal/testutil"
)

func TestCreateCategoryLevels(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	area := testutil.CreateTestArea(t, db)

	top, err := svc.CreateCategory(&area.ID, nil, "Strength", "strength", "", 0)
	testutil.AssertNoError(t, err)
	if top.Level != 1 {
		t.Errorf("expected level 1, got %d", top.Level)
	}

	child, err := svc.CreateCategory(nil, &top.ID, "Upper Body", "upper_body", "", 0)
	testutil.AssertNoError(t, err)
	if child.Level != 2 {
		t.Errorf("expected level 2, got %d", child.Level)
	}
	if child.AreaID == nil || *child.AreaID != area.ID {
		t.Error("child should inherit the parent's area")
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	area := testutil.CreateTestArea(t, db)

	_, err := svc.CreateCategory(&area.ID, nil, "", "", "", 0)
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.CreateCategory(nil, nil, "Orphan", "", "", 0)
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	missing := "00000000-0000-0000-0000-000000000000"
	_, err = svc.CreateCategory(&missing, nil, "Ghost Area", "", "", 0)
	testutil.AssertAppError(t, err, "AREA_NOT_FOUND")

	_, err = svc.CreateCategory(nil, &missing, "Ghost Parent", "", "", 0)
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}

func TestGetTopLevelCategoriesOrdering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	area := testutil.CreateTestArea(t, db)
	b, _ := svc.CreateCategory(&area.ID, nil, "B Top", "", "", 2)
	a, _ := svc.CreateCategory(&area.ID, nil, "A Top", "", "", 1)
	sub, _ := svc.CreateCategory(nil, &a.ID, "A Sub", "", "", 1)
	// Level 3 must not appear.
	if _, err := svc.CreateCategory(nil, &sub.ID, "A Deep", "", "", 1); err != nil {
		t.Fatal(err)
	}

	got, err := svc.GetTopLevelCategories(area.ID)
	testutil.AssertNoError(t, err)

	if len(got) != 3 {
		t.Fatalf("expected 3 top-level entries, got %d", len(got))
	}
	// Level 1 first in sort order, then level 2.
	if got[0].ID != a.ID || got[1].ID != b.ID || got[2].ID != sub.ID {
		t.Errorf("wrong order: %s, %s, %s", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestIsLeaf(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	area := testutil.CreateTestArea(t, db)
	parent := testutil.CreateTestCategory(t, db, area.ID)
	child := testutil.CreateTestChildCategory(t, db, parent)

	leaf, err := svc.IsLeaf(parent.ID)
	testutil.AssertNoError(t, err)
	if leaf {
		t.Error("parent with child should not be leaf")
	}

	leaf, err = svc.IsLeaf(child.ID)
	testutil.AssertNoError(t, err)
	if !leaf {
		t.Error("childless category should be leaf")
	}
}

func TestGetAncestorPath(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	area := testutil.CreateTestArea(t, db)
	l1 := testutil.CreateTestCategory(t, db, area.ID)
	l2 := testutil.CreateTestChildCategory(t, db, l1)
	l3 := testutil.CreateTestChildCategory(t, db, l2)

	path, err := svc.GetAncestorPath(l3.ID)
	testutil.AssertNoError(t, err)

	if len(path) != 3 {
		t.Fatalf("expected path of 3, got %d", len(path))
	}
	if path[0].ID != l1.ID || path[1].ID != l2.ID || path[2].ID != l3.ID {
		t.Error("path should be root-first")
	}
}

func TestGetAncestorPathTruncatesCycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	area := testutil.CreateTestArea(t, db)
	a := testutil.CreateTestCategory(t, db, area.ID)
	b := testutil.CreateTestChildCategory(t, db, a)
	// Corrupt the tree: a's parent is b.
	if err := db.Model(a).Update("parent_category_id", b.ID).Error; err != nil {
		t.Fatal(err)
	}

	path, err := svc.GetAncestorPath(b.ID)
	testutil.AssertNoError(t, err)
	if len(path) != maxTreeDepth+1 {
		t.Errorf("expected truncation at %d hops, got %d elements", maxTreeDepth, len(path))
	}
}

func TestGetDescendantIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	area := testutil.CreateTestArea(t, db)
	root := testutil.CreateTestCategory(t, db, area.ID)
	c1 := testutil.CreateTestChildCategory(t, db, root)
	c2 := testutil.CreateTestChildCategory(t, db, root)
	g1 := testutil.CreateTestChildCategory(t, db, c1)
	// A sibling tree that must not be included.
	other := testutil.CreateTestCategory(t, db, area.ID)
	testutil.CreateTestChildCategory(t, db, other)

	ids, err := svc.GetDescendantIDs(root.ID)
	testutil.AssertNoError(t, err)

	want := map[string]bool{root.ID: true, c1.ID: true, c2.ID: true, g1.ID: true}
	if len(ids) != len(want) {
		t.Fatalf("expected %d IDs, got %d", len(want), len(ids))
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected descendant %s", id)
		}
	}
}

func TestUpdateCategoryReparenting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	area := testutil.CreateTestArea(t, db)
	a := testutil.CreateTestCategory(t, db, area.ID)
	b := testutil.CreateTestChildCategory(t, db, a)
	c := testutil.CreateTestChildCategory(t, db, b)

	_, err := svc.UpdateCategory(a.ID, "", "", nil, &a.ID)
	testutil.AssertAppError(t, err, "SELF_PARENT_CATEGORY")

	_, err = svc.UpdateCategory(a.ID, "", "", nil, &c.ID)
	testutil.AssertAppError(t, err, "CATEGORY_CYCLE")

	// Legal reparent: c moves directly under a.
	updated, err := svc.UpdateCategory(c.ID, "", "", nil, &a.ID)
	testutil.AssertNoError(t, err)
	fetched, err := svc.GetCategoryByID(updated.ID)
	testutil.AssertNoError(t, err)
	if fetched.Level != 2 {
		t.Errorf("reparented level = %d, want 2", fetched.Level)
	}
}

func TestDeleteCategoryGuards(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	area := testutil.CreateTestArea(t, db)
	parent := testutil.CreateTestCategory(t, db, area.ID)
	child := testutil.CreateTestChildCategory(t, db, parent)

	err := svc.DeleteCategory(parent.ID)
	testutil.AssertAppError(t, err, "CATEGORY_HAS_CHILDREN")

	testutil.AssertNoError(t, svc.DeleteCategory(child.ID))
	testutil.AssertNoError(t, svc.DeleteCategory(parent.ID))

	_, err = svc.GetCategoryByID(parent.ID)
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
}
