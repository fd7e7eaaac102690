package models

// Video is a document in the videos collection.
// Key is the document ID; the category only lives in the URL path.
type Video struct {
	Key     string   `json:"key" firestore:"-" bson:"_id"`
	URL     string   `json:"url" firestore:"URL" bson:"URL"`
	Coaches []string `json:"coaches" firestore:"coaches" bson:"coaches"`
}

// Blob is an object listed from the video bucket
type Blob struct {
	Name string `json:"name"`
}

// Catalog maps each category to its sorted video names.
// Categories is sorted and only contains categories with at least one video.
type Catalog struct {
	Categories []string            `json:"categories"`
	Videos     map[string][]string `json:"videos"`
}

// VideoLoad is the number of coaches assigned to a video
type VideoLoad struct {
	Video   string `json:"video"`
	Coaches int    `json:"coaches"`
}

// Collision is a blob whose key is already used by a video in another category
type Collision struct {
	Key         string `json:"key"`
	BlobName    string `json:"blob"`
	ExistingURL string `json:"existing_url"`
}

// IngestReport summarizes a bucket-to-collection sync
type IngestReport struct {
	JobID      string      `json:"job_id,omitempty"`
	New        int         `json:"new"`
	Existing   int         `json:"existing"`
	Added      []string    `json:"added,omitempty"`
	Collisions []Collision `json:"collisions,omitempty"`
}

// UpdateResult is the outcome of an assignment or reset
type UpdateResult struct {
	JobID   string `json:"job_id,omitempty"`
	Updated int    `json:"updated"`
}

// Stats are the counts served by the metrics endpoint
type Stats struct {
	Coaches int `json:"coaches"`
	Videos  int `json:"videos"`
}
