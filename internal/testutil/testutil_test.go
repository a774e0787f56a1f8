package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTempDir(t *testing.T) {
	dir, cleanup := TempDir(t)

	info, err := os.Stat(dir)
	AssertNoError(t, err)
	AssertTrue(t, info.IsDir(), "temp dir should be a directory")

	path := WriteFile(t, dir, "plan.yaml", "root: {}\n")
	AssertEqual(t, filepath.Join(dir, "plan.yaml"), path)

	cleanup()
	_, err = os.Stat(dir)
	AssertTrue(t, os.IsNotExist(err), "temp dir should be removed")
}

func TestAssertions(t *testing.T) {
	AssertEqual(t, 1, 1)
	AssertEqual(t, []int32{1, 2}, []int32{1, 2})
	AssertNoError(t, nil)
	AssertTrue(t, true, "true")
	AssertFalse(t, false, "false")
	AssertContains(t, "Exchange(src=[2])", "src=[2]")
}

func TestPlanFixtures(t *testing.T) {
	scan := SuperTableScan("meters", 1, 2, 3)
	AssertEqual(t, "meters", scan.TableName)
	AssertEqual(t, 3, len(scan.Vgroups))
	AssertTrue(t, scan.MultiVgroup(), "three vgroups should be splittable")
	AssertEqual(t, "dnode2:6030", scan.Vgroups[1].Endpoints[0])

	single := NormalTableScan("dim", 4)
	AssertFalse(t, single.MultiVgroup(), "one vgroup should not be splittable")
	AssertEqual(t, "dim.ts", single.Targets()[0].String())
}
