package ledger

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// SessionLedger manages sessions.json.
type SessionLedger struct {
	service *Service
}

// SessionRequest is the raw input for Create.
type SessionRequest struct {
	Host          UserID
	Cohost        string
	Priority      string
	FRPSpeedLimit int64
	HouseClaiming bool
	Link          string
}

// SessionStats summarizes the session history.
type SessionStats struct {
	Total    int          `json:"total"`
	Active   int          `json:"active"`
	Ended    int          `json:"ended"`
	Recent   int          `json:"recent"`
	TopHosts []CountEntry `json:"top_hosts"`
}

// Create opens a session in the Setting Up state. Ids are the record count plus one.
func (ledger *SessionLedger) Create(ctx context.Context, request SessionRequest) (SessionRecord, error) {
	var record SessionRecord
	err := validateSessionRequest(request)
	if err == nil {
		document := &SessionDocument{}
		err = ledger.service.update(ctx, document, func(context.Context) error {
			record = SessionRecord{
				ID:            int64(len(document.Sessions)) + 1,
				HostID:        request.Host.String(),
				CohostID:      strings.TrimSpace(request.Cohost),
				Priority:      strings.TrimSpace(request.Priority),
				FRPSpeedLimit: request.FRPSpeedLimit,
				HouseClaiming: YesNo(request.HouseClaiming),
				SessionLink:   strings.TrimSpace(request.Link),
				Status:        SessionSettingUp,
				Participants:  []string{},
				CreatedAt:     NewTimestamp(ledger.service.now()),
			}
			document.Sessions = append(document.Sessions, record)
			return nil
		})
	}
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationCreateSession,
		Document:  DocumentSessions,
		UserID:    request.Host.String(),
		Subject:   sessionSubject(record.ID),
		Error:     err,
	})
	if err != nil {
		return SessionRecord{}, err
	}
	return record, nil
}

func validateSessionRequest(request SessionRequest) error {
	if request.Host.IsZero() {
		return fmt.Errorf("%w: empty host", ErrInvalidUserID)
	}
	if strings.TrimSpace(request.Priority) == "" {
		return fmt.Errorf("%w: priority cannot be empty", ErrInvalidField)
	}
	if request.FRPSpeedLimit <= 0 {
		return fmt.Errorf("%w: frp speed must be positive", ErrInvalidField)
	}
	link, err := url.Parse(strings.TrimSpace(request.Link))
	if err != nil || link.Host == "" || (link.Scheme != "http" && link.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidSessionLink, request.Link)
	}
	return nil
}

// UpdateStatus moves a session to status. Only the host or a privileged
// requester may do so. Ended stamps ended_at.
func (ledger *SessionLedger) UpdateStatus(ctx context.Context, id int64, status SessionStatus, requester Requester) (SessionRecord, error) {
	var record SessionRecord
	parsed, err := ParseSessionStatus(string(status))
	if err == nil {
		document := &SessionDocument{}
		err = ledger.service.update(ctx, document, func(context.Context) error {
			session, ok := document.find(id)
			if !ok {
				return fmt.Errorf("%w: %d", ErrSessionNotFound, id)
			}
			if !requester.Privileged && (requester.User.IsZero() || session.HostID != requester.User.String()) {
				return fmt.Errorf("%w: only the host or staff can update session %d", ErrNotAuthorized, id)
			}
			session.Status = parsed
			if parsed == SessionEnded {
				session.EndedAt = stampPointer(ledger.service.now())
			}
			record = *session
			return nil
		})
	}
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationUpdateSession,
		Document:  DocumentSessions,
		UserID:    requester.User.String(),
		Subject:   sessionSubject(id) + ":" + string(parsed),
		Error:     err,
	})
	if err != nil {
		return SessionRecord{}, err
	}
	return record, nil
}

// Join adds user to the session roster. Ended sessions still accept joins.
func (ledger *SessionLedger) Join(ctx context.Context, id int64, user UserID) (SessionRecord, error) {
	record, err := ledger.mutateRoster(ctx, id, user, func(session *SessionRecord) error {
		if session.hasParticipant(user.String()) {
			return fmt.Errorf("%w: session %d", ErrAlreadyJoined, id)
		}
		session.Participants = append(session.Participants, user.String())
		return nil
	})
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationJoinSession,
		Document:  DocumentSessions,
		UserID:    user.String(),
		Subject:   sessionSubject(id),
		Error:     err,
	})
	return record, err
}

// Leave removes user from the session roster.
func (ledger *SessionLedger) Leave(ctx context.Context, id int64, user UserID) (SessionRecord, error) {
	record, err := ledger.mutateRoster(ctx, id, user, func(session *SessionRecord) error {
		index := slices.Index(session.Participants, user.String())
		if index < 0 {
			return fmt.Errorf("%w: session %d", ErrNotJoined, id)
		}
		session.Participants = slices.Delete(session.Participants, index, index+1)
		return nil
	})
	ledger.service.logOperation(ctx, OperationLog{
		Operation: operationLeaveSession,
		Document:  DocumentSessions,
		UserID:    user.String(),
		Subject:   sessionSubject(id),
		Error:     err,
	})
	return record, err
}

func (ledger *SessionLedger) mutateRoster(ctx context.Context, id int64, user UserID, mutate func(session *SessionRecord) error) (SessionRecord, error) {
	if user.IsZero() {
		return SessionRecord{}, fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	var record SessionRecord
	document := &SessionDocument{}
	err := ledger.service.update(ctx, document, func(context.Context) error {
		session, ok := document.find(id)
		if !ok {
			return fmt.Errorf("%w: %d", ErrSessionNotFound, id)
		}
		if err := mutate(session); err != nil {
			return err
		}
		record = *session
		return nil
	})
	if err != nil {
		return SessionRecord{}, err
	}
	return record, nil
}

// Get returns one session.
func (ledger *SessionLedger) Get(ctx context.Context, id int64) (SessionRecord, error) {
	document := &SessionDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return SessionRecord{}, err
	}
	session, ok := document.find(id)
	if !ok {
		return SessionRecord{}, fmt.Errorf("%w: %d", ErrSessionNotFound, id)
	}
	return *session, nil
}

// List returns every session in creation order.
func (ledger *SessionLedger) List(ctx context.Context) ([]SessionRecord, error) {
	document := &SessionDocument{}
	if err := ledger.service.store.Read(ctx, document); err != nil {
		return nil, err
	}
	return document.Sessions, nil
}

// ListActive returns sessions that have not ended.
func (ledger *SessionLedger) ListActive(ctx context.Context) ([]SessionRecord, error) {
	sessions, err := ledger.List(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(sessions, func(session SessionRecord) bool {
		return session.Status == SessionEnded
	}), nil
}

// Stats counts sessions by state and ranks the busiest hosts. Recent counts
// sessions created within window of now.
func (ledger *SessionLedger) Stats(ctx context.Context, window time.Duration) (SessionStats, error) {
	sessions, err := ledger.List(ctx)
	if err != nil {
		return SessionStats{}, err
	}
	cutoff := ledger.service.now().Add(-window)
	hosts := make(map[string]int)
	stats := SessionStats{Total: len(sessions)}
	for _, session := range sessions {
		if session.Status == SessionEnded {
			stats.Ended++
		} else {
			stats.Active++
		}
		if !session.CreatedAt.IsZero() && !session.CreatedAt.Before(cutoff) {
			stats.Recent++
		}
		if session.HostID != "" {
			hosts[session.HostID]++
		}
	}
	stats.TopHosts = topCounts(hosts, statsTopLimit)
	return stats, nil
}

// ParseSessionID parses a positive decimal session id.
func ParseSessionID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSessionID, raw)
	}
	return id, nil
}

func sessionSubject(id int64) string {
	return "session-" + strconv.FormatInt(id, 10)
}
