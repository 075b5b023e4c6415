package rtm

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"milkreport/pkg/cache"
	"milkreport/pkg/config"
)

const (
	baseURL = "https://api.rememberthemilk.com/services/rest/"

	// listsMaxAge is the freshness window for the list cache. Lists
	// change rarely, task queries get their own configurable window.
	listsMaxAge = time.Hour
)

// Client is the high-level read interface to the API. It composes the
// signer, the rate-limited transport and the response cache; every
// successful live fetch overwrites the matching cache entry.
type Client struct {
	cfg        *config.Config
	transport  *Transport
	store      *cache.Store
	logger     *zap.Logger
	taskMaxAge time.Duration
	baseURL    string
}

func NewClient(cfg *config.Config, store *cache.Store, logger *zap.Logger) (*Client, error) {
	maxAge, err := cfg.MaxAge()
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:        cfg,
		transport:  NewTransport(logger),
		store:      store,
		logger:     logger,
		taskMaxAge: maxAge,
		baseURL:    baseURL,
	}, nil
}

// Lists returns all lists, sorted by (smart, name) ascending, from the
// cache when it is fresh enough.
func (c *Client) Lists() ([]List, error) {
	payload, hit, err := c.store.Get(cache.ListsKey, listsMaxAge)
	if err != nil {
		return nil, err
	}
	if !hit {
		payload, err = c.fetchLists()
		if err != nil {
			return nil, err
		}
		if err := c.store.Put(cache.ListsKey, payload); err != nil {
			return nil, err
		}
	} else {
		c.logger.Debug("using cached lists")
	}

	var lists []List
	if err := json.Unmarshal(payload, &lists); err != nil {
		return nil, &DecodeError{Body: string(payload), Err: err}
	}
	return lists, nil
}

// ListNames returns the lists as an id -> name mapping.
func (c *Client) ListNames() (map[int]string, error) {
	lists, err := c.Lists()
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(lists))
	for _, l := range lists {
		id, err := strconv.Atoi(l.ID)
		if err != nil {
			return nil, fmt.Errorf("non-numeric list id %q: %w", l.ID, err)
		}
		names[id] = l.Name
	}
	return names, nil
}

// Tasks returns the raw task containers matching filter, from the
// cache when it is fresh enough. The filter uses the service's own
// query language and is passed through verbatim.
func (c *Client) Tasks(filter string) ([]TaskList, error) {
	key := cache.TaskKey(filter)
	payload, hit, err := c.store.Get(key, c.taskMaxAge)
	if err != nil {
		return nil, err
	}
	if !hit {
		payload, err = c.fetchTasks(filter)
		if err != nil {
			return nil, err
		}
		if err := c.store.Put(key, payload); err != nil {
			return nil, err
		}
	} else {
		c.logger.Debug("using cached tasks", zap.String("key", key))
	}

	var lists []TaskList
	if err := json.Unmarshal(payload, &lists); err != nil {
		return nil, &DecodeError{Body: string(payload), Err: err}
	}
	return lists, nil
}

func (c *Client) fetchLists() ([]byte, error) {
	rsp, err := c.callMethod("rtm.lists.getList", nil)
	if err != nil {
		return nil, err
	}

	var body struct {
		Lists struct {
			List []List `json:"list"`
		} `json:"lists"`
	}
	if err := json.Unmarshal(rsp, &body); err != nil {
		return nil, &DecodeError{Body: string(rsp), Err: err}
	}

	lists := body.Lists.List
	sort.SliceStable(lists, func(i, j int) bool {
		if lists[i].Smart != lists[j].Smart {
			return lists[i].Smart < lists[j].Smart
		}
		return lists[i].Name < lists[j].Name
	})
	return json.MarshalIndent(lists, "", "  ")
}

func (c *Client) fetchTasks(filter string) ([]byte, error) {
	rsp, err := c.callMethod("rtm.tasks.getList", map[string]string{"filter": filter})
	if err != nil {
		return nil, err
	}

	var body struct {
		Tasks struct {
			List []TaskList `json:"list"`
		} `json:"tasks"`
	}
	if err := json.Unmarshal(rsp, &body); err != nil {
		return nil, &DecodeError{Body: string(rsp), Err: err}
	}
	return json.MarshalIndent(body.Tasks.List, "", "  ")
}

// callMethod signs and issues one API call and strips the response
// envelope, returning the inner rsp object as raw JSON.
func (c *Client) callMethod(method string, args map[string]string) (json.RawMessage, error) {
	params := map[string]string{
		"method":     method,
		"format":     "json",
		"api_key":    c.cfg.APIKey,
		"auth_token": c.cfg.Token,
	}
	for k, v := range args {
		params[k] = v
	}
	params["api_sig"] = Sign(params, c.cfg.SharedSecret)

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	reqURL := c.baseURL + "?" + query.Encode()

	c.logger.Debug("calling API", zap.String("method", method))
	text, err := c.transport.Get(reqURL)
	if err != nil {
		return nil, err
	}
	return parseEnvelope(text)
}

// parseEnvelope validates the {"rsp": {"stat": ...}} wrapper. A stat
// other than "ok" is an *APIError carrying the embedded error payload.
func parseEnvelope(text string) (json.RawMessage, error) {
	var envelope struct {
		Rsp json.RawMessage `json:"rsp"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, &DecodeError{Body: text, Err: err}
	}

	var status struct {
		Stat string `json:"stat"`
		Err  struct {
			Code string `json:"code"`
			Msg  string `json:"msg"`
		} `json:"err"`
	}
	if err := json.Unmarshal(envelope.Rsp, &status); err != nil {
		return nil, &DecodeError{Body: text, Err: err}
	}
	if status.Stat != "ok" {
		return nil, &APIError{Stat: status.Stat, Code: status.Err.Code, Msg: status.Err.Msg}
	}
	return envelope.Rsp, nil
}
