package ledger

import (
	"context"
	"fmt"
	"strings"
)

// LastSticky returns the message id last posted as the sticky in channel. An
// empty channel addresses the legacy single slot. Unknown channels yield "".
func (service *Service) LastSticky(ctx context.Context, channel string) (string, error) {
	document := &StickyDocument{}
	if err := service.store.Read(ctx, document); err != nil {
		return "", err
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return document.LastStickyID, nil
	}
	return document.Channels[channel], nil
}

// RecordSticky stores messageID as the current sticky for channel and returns
// the id it replaced.
func (service *Service) RecordSticky(ctx context.Context, channel string, messageID string) (string, error) {
	var previous string
	channel = strings.TrimSpace(channel)
	messageID = strings.TrimSpace(messageID)
	var err error
	switch {
	case len(channel) > maxStickyChannelIDLength:
		err = fmt.Errorf("%w: channel id too long", ErrInvalidField)
	case messageID == "":
		err = fmt.Errorf("%w: message id cannot be empty", ErrInvalidField)
	default:
		document := &StickyDocument{}
		err = service.update(ctx, document, func(context.Context) error {
			if channel == "" {
				previous = document.LastStickyID
				document.LastStickyID = messageID
				return nil
			}
			previous = document.Channels[channel]
			document.Channels[channel] = messageID
			return nil
		})
	}
	service.logOperation(ctx, OperationLog{
		Operation: operationRecordSticky,
		Document:  DocumentSticky,
		Subject:   channel,
		Error:     err,
	})
	if err != nil {
		return "", err
	}
	return previous, nil
}
