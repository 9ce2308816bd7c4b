package chatlog

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/tgdash-backend/internal/domain/chatlog"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

const topUsersLimit = 5

// linkCondition matches messages containing a URL. LIKE keeps it portable
// across Postgres and SQLite.
const linkCondition = "(LOWER(m.text) LIKE '%http://%' OR LOWER(m.text) LIKE '%https://%')"

// Repo reads the collector's tables. It never writes.
type Repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) *Repo {
	return &Repo{db: db, log: baseLog.With("repo", "ChatLogRepo")}
}

// scoped starts a query over messages m restricted to the window and filter.
func (r *Repo) scoped(ctx context.Context, f types.Filter, w types.Window) *gorm.DB {
	q := r.db.WithContext(ctx).Table("messages AS m")
	if !w.From.IsZero() {
		q = q.Where("m.sent_at >= ?", w.From.UTC())
	}
	if !w.To.IsZero() {
		q = q.Where("m.sent_at < ?", w.To.UTC())
	}
	if f.ChatID != nil {
		q = q.Where("m.chat_id = ?", *f.ChatID)
	}
	if f.ThreadID != nil {
		q = q.Where("m.message_thread_id = ?", *f.ThreadID)
	}
	return q
}

func (r *Repo) sqlite() bool { return r.db.Dialector.Name() == "sqlite" }

// bucketExpr truncates sent_at to the bucket and renders it as text so both
// dialects scan into the same field.
func (r *Repo) bucketExpr(b types.Bucket) string {
	if r.sqlite() {
		if b == types.BucketDay {
			return "strftime('%Y-%m-%dT00:00:00Z', m.sent_at)"
		}
		return "strftime('%Y-%m-%dT%H:00:00Z', m.sent_at)"
	}
	return "CAST(date_trunc('" + string(b) + "', m.sent_at) AS TEXT)"
}

func (r *Repo) timeText(expr string) string {
	if r.sqlite() {
		return expr
	}
	return "CAST(" + expr + " AS TEXT)"
}

func (r *Repo) Metrics(ctx context.Context, q types.Query) (types.ActivityMetrics, error) {
	var out types.ActivityMetrics

	var totals struct {
		TotalMessages int64
		UniqueUsers   int64
		LinkMessages  int64
	}
	err := r.scoped(ctx, q.Filter, q.Window).
		Select("COUNT(*) AS total_messages, COUNT(DISTINCT m.user_id) AS unique_users, " +
			"COALESCE(SUM(CASE WHEN " + linkCondition + " THEN 1 ELSE 0 END), 0) AS link_messages").
		Scan(&totals).Error
	if err != nil {
		return out, MapError("chatlog.Metrics totals", err)
	}
	out.TotalMessages = totals.TotalMessages
	out.UniqueUsers = totals.UniqueUsers
	out.LinkMessages = totals.LinkMessages

	var users []struct {
		UserID       *int64
		FirstName    string
		LastName     string
		Username     string
		MessageCount int64
	}
	err = r.scoped(ctx, q.Filter, q.Window).
		Joins("LEFT JOIN users u ON u.id = m.user_id").
		Select("m.user_id AS user_id, COALESCE(u.first_name, '') AS first_name, COALESCE(u.last_name, '') AS last_name, " +
			"COALESCE(u.username, '') AS username, COUNT(*) AS message_count").
		Group("m.user_id, u.first_name, u.last_name, u.username").
		Order("message_count DESC").
		Limit(topUsersLimit).
		Scan(&users).Error
	if err != nil {
		return out, MapError("chatlog.Metrics top users", err)
	}
	out.TopUsers = make([]types.TopUser, 0, len(users))
	for _, u := range users {
		id := ""
		if u.UserID != nil {
			id = strconv.FormatInt(*u.UserID, 10)
		}
		out.TopUsers = append(out.TopUsers, types.TopUser{
			UserID:       id,
			DisplayName:  types.Label(u.FirstName, u.LastName, u.Username),
			MessageCount: u.MessageCount,
		})
	}

	var buckets []struct {
		Bucket       string
		MessageCount int64
	}
	err = r.scoped(ctx, q.Filter, q.Window).
		Select(r.bucketExpr(q.Bucket()) + " AS bucket, COUNT(*) AS message_count").
		Group("bucket").
		Order("bucket ASC").
		Scan(&buckets).Error
	if err != nil {
		return out, MapError("chatlog.Metrics series", err)
	}
	out.Series = make([]types.SeriesPoint, 0, len(buckets))
	for _, b := range buckets {
		ts, ok := parseTimestamp(b.Bucket)
		if !ok {
			r.log.Warn("Skipping unparseable series bucket", "bucket", b.Bucket)
			continue
		}
		out.Series = append(out.Series, types.SeriesPoint{Timestamp: ts, MessageCount: b.MessageCount})
	}
	return out, nil
}

type authoredRow struct {
	SentAt    time.Time
	Text      string
	FirstName string
	LastName  string
	Username  string
}

func (r *Repo) authored(ctx context.Context, q types.Query, limit int, linksOnly bool) ([]authoredRow, error) {
	tx := r.scoped(ctx, q.Filter, q.Window).
		Joins("LEFT JOIN users u ON u.id = m.user_id").
		Select("m.sent_at AS sent_at, m.text AS text, COALESCE(u.first_name, '') AS first_name, " +
			"COALESCE(u.last_name, '') AS last_name, COALESCE(u.username, '') AS username").
		Where("COALESCE(m.text, '') <> ''")
	if linksOnly {
		tx = tx.Where(linkCondition)
	}
	var rows []authoredRow
	err := tx.Order("m.sent_at ASC").Limit(limit).Scan(&rows).Error
	return rows, err
}

// Transcript returns non-empty messages oldest first. preferUsername switches
// the author label to @username first.
func (r *Repo) Transcript(ctx context.Context, q types.Query, limit int, preferUsername bool) ([]types.TranscriptEntry, error) {
	rows, err := r.authored(ctx, q, limit, false)
	if err != nil {
		return nil, MapError("chatlog.Transcript", err)
	}
	label := types.Label
	if preferUsername {
		label = types.MentionLabel
	}
	out := make([]types.TranscriptEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.TranscriptEntry{
			Timestamp: row.SentAt,
			Label:     label(row.FirstName, row.LastName, row.Username),
			Text:      row.Text,
		})
	}
	return out, nil
}

// LinkMessages returns messages that contain at least one extractable URL.
func (r *Repo) LinkMessages(ctx context.Context, q types.Query, limit int) ([]types.LinkMessage, error) {
	rows, err := r.authored(ctx, q, limit, true)
	if err != nil {
		return nil, MapError("chatlog.LinkMessages", err)
	}
	out := make([]types.LinkMessage, 0, len(rows))
	for _, row := range rows {
		links := types.ExtractLinks(row.Text)
		if len(links) == 0 {
			continue
		}
		out = append(out, types.LinkMessage{
			Timestamp: row.SentAt,
			Label:     types.Label(row.FirstName, row.LastName, row.Username),
			Text:      row.Text,
			Links:     links,
		})
	}
	return out, nil
}

// Topics lists forum threads active in the window, busiest first.
func (r *Repo) Topics(ctx context.Context, f types.Filter, w types.Window) ([]types.ForumTopicStat, error) {
	var rows []struct {
		ThreadID      int64
		Name          string
		MessageCount  int64
		LastMessageAt string
	}
	err := r.scoped(ctx, types.Filter{ChatID: f.ChatID}, w).
		Joins("LEFT JOIN forum_topics ft ON ft.chat_id = m.chat_id AND ft.thread_id = m.message_thread_id").
		Where("m.message_thread_id IS NOT NULL").
		Select("m.message_thread_id AS thread_id, COALESCE(ft.name, '') AS name, " +
			"COUNT(*) AS message_count, " + r.timeText("MAX(m.sent_at)") + " AS last_message_at").
		Group("m.message_thread_id, ft.name").
		Order("message_count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, MapError("chatlog.Topics", err)
	}
	out := make([]types.ForumTopicStat, 0, len(rows))
	for _, row := range rows {
		id := strconv.FormatInt(row.ThreadID, 10)
		name := strings.TrimSpace(row.Name)
		if name == "" {
			name = "Тема #" + id
		}
		last, _ := parseTimestamp(row.LastMessageAt)
		out = append(out, types.ForumTopicStat{
			ThreadID:      id,
			TopicName:     name,
			MessageCount:  row.MessageCount,
			LastMessageAt: last,
		})
	}
	return out, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp reads aggregate timestamps rendered as text by either dialect.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
