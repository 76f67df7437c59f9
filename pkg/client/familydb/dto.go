package familydb

// Row is one record of a remote table, keyed by column name. The client does
// not know table schemas; services convert rows to their own models.
type Row map[string]interface{}

type (
	SelectRequest struct {
		Table   string
		Filters map[string]string
		OrderBy string
		Limit   int
		Offset  int
	}

	SelectResponse struct {
		Rows []Row `json:"rows"`
	}
)

type (
	InsertRequest struct {
		Table string
		Row   Row
	}

	InsertResponse struct {
		Row Row `json:"row"`
	}
)

type (
	UpdateRequest struct {
		Table   string
		Filters map[string]string
		Changes Row
	}

	UpdateResponse struct {
		Rows []Row `json:"rows"`
	}
)

type (
	DeleteRequest struct {
		Table   string
		Filters map[string]string
	}

	DeleteResponse struct {
		Deleted int64 `json:"deleted"`
	}
)

type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int64  `json:"-"`
}
