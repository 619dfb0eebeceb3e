package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kiddotube/backend/internal/db"
	"github.com/kiddotube/backend/internal/models"
)

// PostgresProfileRepository provides PostgreSQL-backed persistence for profiles.
type PostgresProfileRepository struct {
	pool db.Pool
}

// NewPostgresProfileRepository constructs a profile repository backed by PostgreSQL.
func NewPostgresProfileRepository(pool db.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// Get fetches a profile by id.
func (r *PostgresProfileRepository) Get(ctx context.Context, profileID string) (models.Profile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Profile{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `
        SELECT id, avatar_id, silly_name, COALESCE(pin_hash, ''), created_at
        FROM profiles
        WHERE id = $1
    `, profileID)

	var profile models.Profile
	if err := row.Scan(&profile.ID, &profile.AvatarID, &profile.SillyName, &profile.PinHash, &profile.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Profile{}, ErrNotFound
		}
		return models.Profile{}, fmt.Errorf("select profile: %w", err)
	}

	return profile, nil
}

// List returns all profiles ordered by id.
func (r *PostgresProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, avatar_id, silly_name, COALESCE(pin_hash, ''), created_at
        FROM profiles
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var profile models.Profile
		if err := rows.Scan(&profile.ID, &profile.AvatarID, &profile.SillyName, &profile.PinHash, &profile.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, nil
}

// Create persists a new profile record.
func (r *PostgresProfileRepository) Create(ctx context.Context, profile models.Profile) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO profiles (id, avatar_id, silly_name, pin_hash, created_at)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5)
    `, profile.ID, profile.AvatarID, profile.SillyName, profile.PinHash, profile.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

// Update modifies an existing profile record.
func (r *PostgresProfileRepository) Update(ctx context.Context, profile models.Profile) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE profiles
        SET avatar_id = $2, silly_name = $3, pin_hash = NULLIF($4, '')
        WHERE id = $1
    `, profile.ID, profile.AvatarID, profile.SillyName, profile.PinHash)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Exists reports whether a profile with the given id exists.
func (r *PostgresProfileRepository) Exists(ctx context.Context, profileID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	row := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, profileID)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check profile exists: %w", err)
	}

	return exists, nil
}

// PostgresApprovalRepository provides PostgreSQL-backed persistence for
// creator grants, approved videos, and blocked videos.
type PostgresApprovalRepository struct {
	pool db.Pool
}

// NewPostgresApprovalRepository constructs an approval repository backed by PostgreSQL.
func NewPostgresApprovalRepository(pool db.Pool) *PostgresApprovalRepository {
	return &PostgresApprovalRepository{pool: pool}
}

// ListCreators returns the profile's approved creators, most recently added first.
func (r *PostgresApprovalRepository) ListCreators(ctx context.Context, profileID string) ([]models.ApprovedCreator, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT channel_id, channel_name, channel_thumbnail, approve_all_videos, added_at
        FROM approved_creators
        WHERE profile_id = $1
        ORDER BY added_at DESC
    `, profileID)
	if err != nil {
		return nil, fmt.Errorf("query approved creators: %w", err)
	}
	defer rows.Close()

	var creators []models.ApprovedCreator
	for rows.Next() {
		var creator models.ApprovedCreator
		if err := rows.Scan(&creator.ChannelID, &creator.ChannelName, &creator.ChannelThumbnail, &creator.ApproveAllVideos, &creator.AddedAt); err != nil {
			return nil, fmt.Errorf("scan approved creator: %w", err)
		}
		creators = append(creators, creator)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate approved creators: %w", err)
	}

	return creators, nil
}

// AddCreator persists a new creator grant.
func (r *PostgresApprovalRepository) AddCreator(ctx context.Context, profileID string, creator models.ApprovedCreator) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO approved_creators (profile_id, channel_id, channel_name, channel_thumbnail, approve_all_videos, added_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, profileID, creator.ChannelID, creator.ChannelName, creator.ChannelThumbnail, creator.ApproveAllVideos, creator.AddedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert approved creator: %w", err)
	}

	return nil
}

// RemoveCreator deletes a creator grant.
func (r *PostgresApprovalRepository) RemoveCreator(ctx context.Context, profileID, channelID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM approved_creators
        WHERE profile_id = $1 AND channel_id = $2
    `, profileID, channelID)
	if err != nil {
		return fmt.Errorf("delete approved creator: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListVideos returns the profile's individually approved videos, most recently added first.
func (r *PostgresApprovalRepository) ListVideos(ctx context.Context, profileID string) ([]models.ApprovedVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT video_id, title, thumbnail, channel_name, COALESCE(channel_id, ''), duration, added_at, source
        FROM approved_videos
        WHERE profile_id = $1
        ORDER BY added_at DESC
    `, profileID)
	if err != nil {
		return nil, fmt.Errorf("query approved videos: %w", err)
	}
	defer rows.Close()

	var videos []models.ApprovedVideo
	for rows.Next() {
		var video models.ApprovedVideo
		if err := rows.Scan(&video.VideoID, &video.Title, &video.Thumbnail, &video.ChannelName, &video.ChannelID, &video.Duration, &video.AddedAt, &video.Source); err != nil {
			return nil, fmt.Errorf("scan approved video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate approved videos: %w", err)
	}

	return videos, nil
}

// AddVideo persists a new individually approved video.
func (r *PostgresApprovalRepository) AddVideo(ctx context.Context, profileID string, video models.ApprovedVideo) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO approved_videos (profile_id, video_id, title, thumbnail, channel_name, channel_id, duration, added_at, source)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
    `, profileID, video.VideoID, video.Title, video.Thumbnail, video.ChannelName, video.ChannelID, video.Duration, video.AddedAt, video.Source)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert approved video: %w", err)
	}

	return nil
}

// RemoveVideo deletes an individually approved video.
func (r *PostgresApprovalRepository) RemoveVideo(ctx context.Context, profileID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM approved_videos
        WHERE profile_id = $1 AND video_id = $2
    `, profileID, videoID)
	if err != nil {
		return fmt.Errorf("delete approved video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListBlocked returns the profile's blocked videos, most recently blocked first.
func (r *PostgresApprovalRepository) ListBlocked(ctx context.Context, profileID string) ([]models.BlockedVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT video_id, COALESCE(reason, ''), blocked_at
        FROM blocked_videos
        WHERE profile_id = $1
        ORDER BY blocked_at DESC
    `, profileID)
	if err != nil {
		return nil, fmt.Errorf("query blocked videos: %w", err)
	}
	defer rows.Close()

	var blocked []models.BlockedVideo
	for rows.Next() {
		var record models.BlockedVideo
		if err := rows.Scan(&record.VideoID, &record.Reason, &record.BlockedAt); err != nil {
			return nil, fmt.Errorf("scan blocked video: %w", err)
		}
		blocked = append(blocked, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocked videos: %w", err)
	}

	return blocked, nil
}

// UpsertBlocked blocks a video, refreshing reason and timestamp when the
// block already exists.
func (r *PostgresApprovalRepository) UpsertBlocked(ctx context.Context, profileID string, blocked models.BlockedVideo) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO blocked_videos (profile_id, video_id, reason, blocked_at)
        VALUES ($1, $2, NULLIF($3, ''), $4)
        ON CONFLICT (profile_id, video_id)
        DO UPDATE SET reason = EXCLUDED.reason, blocked_at = EXCLUDED.blocked_at
    `, profileID, blocked.VideoID, blocked.Reason, blocked.BlockedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("upsert blocked video: %w", err)
	}

	return nil
}

// RemoveBlocked unblocks a video.
func (r *PostgresApprovalRepository) RemoveBlocked(ctx context.Context, profileID, videoID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM blocked_videos
        WHERE profile_id = $1 AND video_id = $2
    `, profileID, videoID)
	if err != nil {
		return fmt.Errorf("delete blocked video: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// PostgresHistoryRepository provides PostgreSQL-backed persistence for watch history.
type PostgresHistoryRepository struct {
	pool db.Pool
}

// NewPostgresHistoryRepository constructs a history repository backed by PostgreSQL.
func NewPostgresHistoryRepository(pool db.Pool) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{pool: pool}
}

// Append stores a new watch record.
func (r *PostgresHistoryRepository) Append(ctx context.Context, profileID string, record models.WatchRecord) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO watch_history (profile_id, video_id, title, watched_at, watch_duration)
        VALUES ($1, $2, $3, $4, $5)
    `, profileID, record.VideoID, record.Title, record.WatchedAt, record.WatchDurationSeconds)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert watch record: %w", err)
	}

	return nil
}

// List returns watch records most-recent-first, truncated to limit.
func (r *PostgresHistoryRepository) List(ctx context.Context, profileID string, limit int) ([]models.WatchRecord, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT video_id, title, watched_at, watch_duration
        FROM watch_history
        WHERE profile_id = $1
        ORDER BY watched_at DESC, id DESC
        LIMIT $2
    `, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	var records []models.WatchRecord
	for rows.Next() {
		var (
			record    models.WatchRecord
			watchedAt sql.NullTime
		)
		if err := rows.Scan(&record.VideoID, &record.Title, &watchedAt, &record.WatchDurationSeconds); err != nil {
			return nil, fmt.Errorf("scan watch record: %w", err)
		}
		if watchedAt.Valid {
			record.WatchedAt = watchedAt.Time.UTC()
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return records, nil
}

// Trim drops the oldest records beyond keep.
func (r *PostgresHistoryRepository) Trim(ctx context.Context, profileID string, keep int) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        DELETE FROM watch_history
        WHERE profile_id = $1
          AND id NOT IN (
            SELECT id FROM watch_history
            WHERE profile_id = $1
            ORDER BY watched_at DESC, id DESC
            LIMIT $2
          )
    `, profileID, keep)
	if err != nil {
		return fmt.Errorf("trim watch history: %w", err)
	}

	return nil
}

var _ ProfileRepository = (*PostgresProfileRepository)(nil)
var _ ApprovalRepository = (*PostgresApprovalRepository)(nil)
var _ HistoryRepository = (*PostgresHistoryRepository)(nil)
