package part

import (
	"fmt"
	"time"

	"github.com/danthegoodman1/icefooter/footer"
	"github.com/danthegoodman1/icefooter/metadata"
	"github.com/danthegoodman1/icefooter/utils"
)

type (
	// Part is one registered parquet file and its footer.
	Part struct {
		ID string
		// Key is the object key inside the data store
		Key          string
		Alive        bool
		CreatedAt    time.Time
		NumRows      int64
		NumRowGroups int
		NumColumns   int
		CreatedBy    *string
		// Footer is the thrift compact encoded file metadata exactly as it was
		// read from the file, so fields the writer path drops survive here.
		Footer []byte
	}
)

func NewPart(key string, rawFooter []byte, fmd *metadata.FileMetaData) Part {
	p := Part{
		ID:           utils.GenKSortedID("p_"),
		Key:          key,
		Alive:        true,
		CreatedAt:    time.Now(),
		NumRows:      fmd.NumRows(),
		NumRowGroups: fmd.NumRowGroups(),
		NumColumns:   fmd.SchemaDescriptor().NumColumns(),
		Footer:       rawFooter,
	}
	if createdBy, ok := fmd.CreatedBy(); ok {
		p.CreatedBy = &createdBy
	}
	return p
}

// FileMetaData decodes the stored footer.
func (p Part) FileMetaData() (*metadata.FileMetaData, error) {
	fmd, err := footer.Unmarshal(p.Footer)
	if err != nil {
		return nil, fmt.Errorf("error decoding footer of part %s: %w", p.ID, err)
	}
	return fmd, nil
}
