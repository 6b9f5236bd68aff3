/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package registry_test

import (
	"fmt"
	"runtime"
	"testing"

	"golang.org/x/sync/errgroup"

	"dirpx.dev/pathx/registry"
	"dirpx.dev/pathx/segment"
)

// TestConcurrentIntern verifies that concurrent Intern calls on the same
// raw text all observe one winning segment.
func TestConcurrentIntern(t *testing.T) {
	reg := registry.New()

	raws := make([]string, 64)
	for i := range raws {
		raws[i] = fmt.Sprintf("member%d", i)
	}

	workers := runtime.GOMAXPROCS(0) * 4
	seen := make([][]*segment.Segment, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		seen[w] = make([]*segment.Segment, len(raws))
		g.Go(func() error {
			for i := 0; i < 2000; i++ {
				j := (i + w) % len(raws)
				s := reg.Intern(raws[j])
				if s.Lower() != raws[j] {
					return fmt.Errorf("Intern(%q).Lower() = %q", raws[j], s.Lower())
				}
				if prev := seen[w][j]; prev != nil && prev != s {
					return fmt.Errorf("Intern(%q) returned two handles", raws[j])
				}
				seen[w][j] = s
				_ = reg.Count()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	for j := range raws {
		for w := 1; w < workers; w++ {
			if seen[w][j] != nil && seen[0][j] != nil && seen[w][j] != seen[0][j] {
				t.Fatalf("workers disagree on %q", raws[j])
			}
		}
	}
	if got, want := reg.Count(), seeded+len(raws); got != want {
		t.Fatalf("count mismatch: got %d want %d", got, want)
	}
}

// TestConcurrentInternAndReset verifies that readers never observe a
// partially built store while resets run.
func TestConcurrentInternAndReset(t *testing.T) {
	reg := registry.New()

	var g errgroup.Group
	for w := 0; w < runtime.GOMAXPROCS(0)*2; w++ {
		g.Go(func() error {
			for i := 0; i < 2000; i++ {
				s := reg.Intern("@Index")
				if s.Kind() != segment.KindIndex {
					return fmt.Errorf("@Index kind = %v after reset", s.Kind())
				}
				reg.Intern(fmt.Sprintf("k%d", i%17))
			}
			return nil
		})
	}
	g.Go(func() error {
		for i := 0; i < 200; i++ {
			reg.Reset()
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func BenchmarkIntern_Warm(b *testing.B) {
	reg := registry.New()
	raws := []string{"user", "address", "city", "@index", "[weird key]", "this"}
	for _, r := range raws {
		reg.Intern(r)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.Intern(raws[i%len(raws)])
	}
}
