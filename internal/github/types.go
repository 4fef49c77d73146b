package github

import "time"

// CommitSummary is one entry from the commit list endpoint
type CommitSummary struct {
	SHA       string
	Message   string
	Author    string
	Timestamp time.Time
	URL       string
}

// FileChange is one file within a commit or pull request
type FileChange struct {
	Path      string
	Status    string
	Additions int
	Deletions int
	Patch     string
}

// CommitDetail is the per-commit file-level detail
type CommitDetail struct {
	SHA   string
	Files []FileChange
}

// Pull is a closed pull request; only merged ones carry a MergedAt time
type Pull struct {
	Number   int
	Title    string
	Author   string
	MergedAt time.Time
	URL      string
}

// Raw GitHub API response shapes. Records missing required fields are
// rejected at this boundary instead of leaking zero values downstream.

type apiCommitListItem struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message   string `json:"message"`
		Committer struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"committer"`
		Author struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
	HTMLURL string `json:"html_url"`
}

type apiCommitDetail struct {
	SHA   string    `json:"sha"`
	Files []apiFile `json:"files"`
}

type apiFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Patch     string `json:"patch"`
}

type apiPull struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	User   *struct {
		Login string `json:"login"`
	} `json:"user"`
	MergedAt *time.Time `json:"merged_at"`
	HTMLURL  string     `json:"html_url"`
}

func (c apiCommitListItem) toSummary() (CommitSummary, bool) {
	if c.SHA == "" {
		return CommitSummary{}, false
	}
	out := CommitSummary{
		SHA:       c.SHA,
		Message:   c.Commit.Message,
		Timestamp: c.Commit.Committer.Date,
		URL:       c.HTMLURL,
	}
	if out.Timestamp.IsZero() {
		out.Timestamp = c.Commit.Author.Date
	}
	if out.Timestamp.IsZero() {
		return CommitSummary{}, false
	}
	if c.Author != nil && c.Author.Login != "" {
		out.Author = c.Author.Login
	} else {
		out.Author = c.Commit.Author.Name
	}
	return out, true
}

func (p apiPull) toPull() (Pull, bool) {
	if p.Number == 0 || p.MergedAt == nil {
		return Pull{}, false
	}
	out := Pull{
		Number:   p.Number,
		Title:    p.Title,
		MergedAt: *p.MergedAt,
		URL:      p.HTMLURL,
	}
	if p.User != nil {
		out.Author = p.User.Login
	}
	return out, true
}

func (f apiFile) toFileChange() FileChange {
	return FileChange{
		Path:      f.Filename,
		Status:    f.Status,
		Additions: f.Additions,
		Deletions: f.Deletions,
		Patch:     f.Patch,
	}
}
