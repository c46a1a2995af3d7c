package prep

import(
	"log"
	"path/filepath"
	"sort"
	"sync"
)

type frameJob struct {
	Src    string
	OutDir string
}

// RunBatch discovers every recognized frame under the configured
// pairs and runs them through a worker pool. Frames are independent,
// so the pool shares nothing but the read-only Prepper; results come
// back as one status per frame, sorted by source path.
func (pr *Prepper)RunBatch() []FrameStatus {
	jobs := []frameJob{}
	for _, pair := range pr.Pairs {
		srcs, err := FindInputs(pair.Src)
		if err != nil {
			log.Printf("[WARN] skipping pair dir '%s': %v\n", pair.Src, err)
			continue
		}
		if len(srcs) == 0 {
			log.Printf("[WARN] no L1A panchromatic frames found in '%s'\n", pair.Src)
		}
		for _, src := range srcs {
			jobs = append(jobs, frameJob{Src: src, OutDir: pair.Out})
		}
	}

	var wg sync.WaitGroup
	jobsChan := make(chan frameJob, len(jobs))
	resultsChan := make(chan FrameStatus, len(jobs))

	// Kick off worker pool
	for i := 0; i < pr.Workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			for job := range jobsChan {
				resultsChan <- pr.ProcessOne(job.Src, job.OutDir)
			}
		}()
	}

	// Feed in jobs
	for _, job := range jobs {
		jobsChan <- job
	}

	close(jobsChan)
	wg.Wait()
	close(resultsChan)

	statuses := []FrameStatus{}
	for st := range resultsChan {
		statuses = append(statuses, st)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Src < statuses[j].Src })

	return statuses
}

// Summarize logs each frame's status and returns the ok/failed split.
func Summarize(statuses []FrameStatus) (int, int) {
	ok, failed := 0, 0
	for _, st := range statuses {
		if st.OK() {
			ok++
		} else {
			failed++
			log.Printf("[ERROR] %s: %v\n", filepath.Base(st.Src), st.Err)
		}
	}
	log.Printf("batch done: %d ok, %d failed\n", ok, failed)
	return ok, failed
}
