package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/dscatalog/dscat/internal/query"
)

// MetadataSink receives the serialized current-dataset record after
// every successful dsinfo load. On the catalog page this is the
// page_metadata element that crawlers read; headless callers can plug
// in anything. The serialized text deliberately duplicates State.DSInfo
// so out-of-band consumers never have to walk the structured state.
type MetadataSink interface {
	SetPageMetadata(serialized string)
}

// Controller runs the page bootstrap: parse the query, load the
// inventory, then load the requested dataset's record. All fetches are
// strictly sequential; at most one request is in flight at a time.
type Controller struct {
	state  *State
	client *Client
	sink   MetadataSink
	logger *log.Logger
}

// NewController creates a Controller mutating state via client. sink
// may be nil; logger defaults to the standard logger.
func NewController(state *State, client *Client, sink MetadataSink, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{state: state, client: client, sink: sink, logger: logger}
}

// Bootstrap performs the load sequence for one page view, driven by the
// raw query string. Failures surface as alerts on the state and a
// non-nil error; the state stays usable either way and a later
// independent fetch is never blocked by an earlier failure.
func (c *Controller) Bootstrap(ctx context.Context, rawQuery string) error {
	params := query.Parse(rawQuery)

	// Lookup by dataset id was never implemented in the catalog; keep
	// the diagnostic and nothing else.
	if params.Has("id") {
		c.logger.Printf("catalog: id-based lookup requested (id=%q), not implemented", params.Get("id"))
		return nil
	}

	path := params.GetDefault("p", ".")

	inv, err := c.client.Inventory(ctx)
	if err != nil {
		c.logger.Printf("catalog: inventory fetch failed: %v", err)
		c.state.AddAlert(AlertError, fmt.Sprintf("failed to load dataset inventory: %v", err))
		return err
	}
	c.state.SetInventory(inv)

	loc, ok := inv[path]
	if !ok {
		c.logger.Printf("catalog: no dataset at path %q", path)
		c.state.AddAlert(AlertError, fmt.Sprintf("no dataset found at path %q", path))
		return fmt.Errorf("no dataset at path %q", path)
	}

	return c.FetchObject(ctx, loc, SlotDSInfo)
}

// FetchObject loads the metadata record at loc into the named state
// slot. For the dsinfo slot the record is additionally serialized and
// handed to the metadata sink. Reused by the bootstrap and by callers
// loading companion records into coinfo.
func (c *Controller) FetchObject(ctx context.Context, loc, slot string) error {
	record, err := c.client.Object(ctx, loc)
	if err != nil {
		c.logger.Printf("catalog: object fetch for %q failed: %v", loc, err)
		c.state.AddAlert(AlertError, fmt.Sprintf("failed to load metadata for %q: %v", loc, err))
		return err
	}

	c.state.SetSlot(slot, record)

	if slot == SlotDSInfo && c.sink != nil {
		serialized, err := json.Marshal(record)
		if err != nil {
			// A record that decoded from JSON always re-encodes.
			c.logger.Printf("catalog: serializing record for %q: %v", loc, err)
			return nil
		}
		c.sink.SetPageMetadata(string(serialized))
	}
	return nil
}
