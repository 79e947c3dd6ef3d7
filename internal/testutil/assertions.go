// Package testutil holds shared fixtures and assertions for zone tests.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// AssertVecNear проверяет, что векторы совпадают покомпонентно с точностью eps.
func AssertVecNear(t testing.TB, expected, actual r3.Vec, eps float64) {
	t.Helper()

	d := r3.Sub(expected, actual)
	if math.Abs(d.X) > eps || math.Abs(d.Y) > eps || math.Abs(d.Z) > eps {
		t.Fatalf("vector mismatch: expected %+v, got %+v (eps %g)", expected, actual, eps)
	}
}

// WriteZoneFile создаёт файл name в dir с содержимым content и возвращает путь.
func WriteZoneFile(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

