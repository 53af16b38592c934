package identity

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"thesisflow_backend/internals/repository"
	"thesisflow_backend/internals/repository/memstore"
)

func TestBundledDatasetApplies(t *testing.T) {
	ctx := context.Background()
	ds, err := LoadDataset("data_identity.json")
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(ds.Departments) == 0 || len(ds.Teachers) == 0 {
		t.Fatalf("dataset looks empty: %+v", ds)
	}

	store := memstore.New()
	for i := 0; i < 2; i++ {
		if err := Apply(ctx, store, ds); err != nil {
			t.Fatalf("Apply #%d: %v", i+1, err)
		}
	}

	// CS changed heads on 2023-09-01
	cs := ds.Departments[0].ID
	cases := []struct {
		asOf time.Time
		want int
	}{
		{time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 1},
	}
	for _, c := range cases {
		err := store.View(ctx, func(tx repository.Tx) error {
			head, err := tx.FindDepartmentHead(ctx, cs, c.asOf)
			if err != nil {
				return err
			}
			if head.AppointmentTeacherID != ds.Teachers[c.want].ID {
				t.Fatalf("head as of %s = %s, want %s", c.asOf.Format("2006-01-02"), head.AppointmentTeacherID, ds.Teachers[c.want].ID)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("FindDepartmentHead: %v", err)
		}
	}
}

func TestLoadDatasetMissingFile(t *testing.T) {
	if _, err := LoadDataset("does-not-exist.json"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoadDatasetYAML(t *testing.T) {
	doc := `departments:
  - id: 5b0f4a0e-1111-4c4c-9a9a-000000000001
    name: Mathematics
    code: MA
teachers:
  - user_id: 5b0f4a0e-2222-4c4c-9a9a-000000000001
    id: 5b0f4a0e-3333-4c4c-9a9a-000000000001
    name: Ivo Petrov
    email: ivo@example.edu
    department_id: 5b0f4a0e-1111-4c4c-9a9a-000000000001
    extra: Assoc. Prof.
heads:
  - department_id: 5b0f4a0e-1111-4c4c-9a9a-000000000001
    teacher_id: 5b0f4a0e-3333-4c4c-9a9a-000000000001
    starts_at: 2021-02-01T00:00:00Z
`
	p := filepath.Join(t.TempDir(), "identity.yaml")
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := LoadDataset(p)
	if err != nil {
		t.Fatalf("LoadDataset: %v", err)
	}
	if len(ds.Teachers) != 1 || ds.Teachers[0].Extra != "Assoc. Prof." {
		t.Fatalf("teachers = %+v", ds.Teachers)
	}
	if ds.Heads[0].TeacherID != ds.Teachers[0].ID || ds.Heads[0].StartsAt.Year() != 2021 {
		t.Fatalf("heads = %+v", ds.Heads)
	}
	if err := Apply(context.Background(), memstore.New(), ds); err != nil {
		t.Fatalf("Apply: %v", err)
	}
}
