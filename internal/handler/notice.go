package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"unicode"

	"github.com/dunglas/httpsfv"

	"storefront/internal/storefront"
)

// NoticeHeader carries the notices a request raised, as an RFC 8941 list
// of strings with a level parameter:
//
//	Storefront-Notice: "Added to cart!";level=success
const NoticeHeader = "Storefront-Notice"

// EncodeNotices serializes notices for NoticeHeader. Messages outside
// printable ASCII are sent as display strings.
func EncodeNotices(notices []storefront.Notice) (string, error) {
	list := make(httpsfv.List, 0, len(notices))
	for _, n := range notices {
		var value interface{} = n.Message
		if !printableASCII(n.Message) {
			value = httpsfv.DisplayString(n.Message)
		}
		item := httpsfv.NewItem(value)
		item.Params.Add("level", httpsfv.Token(n.Level))
		list = append(list, item)
	}
	return httpsfv.Marshal(list)
}

// ParseNotices decodes a NoticeHeader value. Members without a level are
// reported as info.
func ParseNotices(header string) ([]storefront.Notice, error) {
	list, err := httpsfv.UnmarshalList([]string{header})
	if err != nil {
		return nil, fmt.Errorf("invalid %s header: %w", NoticeHeader, err)
	}

	out := make([]storefront.Notice, 0, len(list))
	for _, member := range list {
		item, ok := member.(httpsfv.Item)
		if !ok {
			return nil, fmt.Errorf("invalid %s header: inner lists are not notices", NoticeHeader)
		}

		var msg string
		switch v := item.Value.(type) {
		case string:
			msg = v
		case httpsfv.DisplayString:
			msg = string(v)
		default:
			return nil, fmt.Errorf("invalid %s header: message must be a string", NoticeHeader)
		}

		level := storefront.LevelInfo
		if p, ok := item.Params.Get("level"); ok {
			if tok, ok := p.(httpsfv.Token); ok {
				level = storefront.Level(tok)
			}
		}
		out = append(out, storefront.Notice{Level: level, Message: msg})
	}
	return out, nil
}

// setNotices drains notices into the response header.
func (h *Handler) setNotices(w http.ResponseWriter, notices *storefront.NoticeLog) {
	if notices == nil {
		return
	}
	drained := notices.Drain()
	if len(drained) == 0 {
		return
	}
	value, err := EncodeNotices(drained)
	if err != nil {
		h.logger.Warn("dropping notices", slog.String("error", err.Error()))
		return
	}
	w.Header().Set(NoticeHeader, value)
}

func printableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] >= unicode.MaxASCII {
			return false
		}
	}
	return true
}
