package jobs

// Jobs is a mutable list of postings from one or more sources.
type Jobs struct {
	Items []*Job
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) Append(items ...*Job) {
	j.Items = append(j.Items, items...)
}

func (j *Jobs) FindByLink(link string) *Job {
	for _, job := range j.Items {
		if job.Link == link {
			return job
		}
	}
	return nil
}

// Filter returns the postings for which keep returns true. The receiver is
// left untouched.
func (j *Jobs) Filter(keep func(*Job) bool) *Jobs {
	out := &Jobs{}
	for _, job := range j.Items {
		if keep(job) {
			out.Items = append(out.Items, job)
		}
	}
	return out
}

// ByCompany groups postings by their company field.
func (j *Jobs) ByCompany() map[string][]*Job {
	grouped := make(map[string][]*Job)
	for _, job := range j.Items {
		grouped[job.Company] = append(grouped[job.Company], job)
	}
	return grouped
}
