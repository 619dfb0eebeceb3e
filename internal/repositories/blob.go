package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kiddotube/backend/internal/config"
	"github.com/kiddotube/backend/internal/models"
)

// blobCore persists the data set as JSON documents in an S3-compatible
// bucket: a "profiles" document plus per-profile "approvals_<id>" and
// "history_<id>" documents. Writes are read-modify-write with no cross-writer
// isolation; concurrent writers to the same profile can lose updates, which
// the storage contract accepts.
type blobCore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// BlobRepositories bundles the three repository views over one bucket.
type BlobRepositories struct {
	Profiles  *BlobProfileRepository
	Approvals *BlobApprovalRepository
	History   *BlobHistoryRepository
}

// NewBlobRepositories configures repositories targeting the provided bucket.
func NewBlobRepositories(ctx context.Context, cfg config.ObjectStoreConfig) (*BlobRepositories, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("blob store: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if strings.TrimSpace(cfg.Endpoint) != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{
					URL:           cfg.Endpoint,
					SigningRegion: cfg.Region,
				}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, awsconfig.WithEndpointResolverWithOptions(resolver))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.LeavePartsOnError = false
	})

	core := &blobCore{client: client, uploader: uploader, bucket: cfg.Bucket}
	return &BlobRepositories{
		Profiles:  &BlobProfileRepository{core: core},
		Approvals: &BlobApprovalRepository{core: core},
		History:   &BlobHistoryRepository{core: core},
	}, nil
}

// Document shapes. Profiles keep their PIN hash here; the models type hides
// it from API responses, so the blob documents carry it explicitly.

type blobProfile struct {
	ID        string    `json:"id"`
	AvatarID  string    `json:"avatarId"`
	SillyName string    `json:"sillyName"`
	PinHash   string    `json:"pinHash"`
	CreatedAt time.Time `json:"createdAt"`
}

type profilesDoc struct {
	Profiles []blobProfile `json:"profiles"`
}

type approvalsDoc struct {
	ProfileID        string                   `json:"profileId"`
	ApprovedCreators []models.ApprovedCreator `json:"approvedCreators"`
	ApprovedVideos   []models.ApprovedVideo   `json:"approvedVideos"`
	BlockedVideos    []models.BlockedVideo    `json:"blockedVideos"`
}

type historyDoc struct {
	ProfileID string               `json:"profileId"`
	Watches   []models.WatchRecord `json:"watches"`
}

const profilesKey = "profiles"

func approvalsKey(profileID string) string { return "approvals_" + profileID }
func historyKey(profileID string) string   { return "history_" + profileID }

// BlobProfileRepository implements ProfileRepository over the profiles document.
type BlobProfileRepository struct {
	core *blobCore
}

// Get fetches a profile by id.
func (r *BlobProfileRepository) Get(ctx context.Context, profileID string) (models.Profile, error) {
	profiles, err := r.core.loadProfiles(ctx)
	if err != nil {
		return models.Profile{}, err
	}
	for _, profile := range profiles {
		if profile.ID == profileID {
			return profile, nil
		}
	}
	return models.Profile{}, ErrNotFound
}

// List returns all profiles ordered by id.
func (r *BlobProfileRepository) List(ctx context.Context) ([]models.Profile, error) {
	profiles, err := r.core.loadProfiles(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles, nil
}

// Create appends a new profile to the profiles document.
func (r *BlobProfileRepository) Create(ctx context.Context, profile models.Profile) error {
	profiles, err := r.core.loadProfiles(ctx)
	if err != nil {
		return err
	}
	for _, existing := range profiles {
		if existing.ID == profile.ID {
			return ErrConflict
		}
	}
	return r.core.saveProfiles(ctx, append(profiles, profile))
}

// Update replaces an existing profile entry.
func (r *BlobProfileRepository) Update(ctx context.Context, profile models.Profile) error {
	profiles, err := r.core.loadProfiles(ctx)
	if err != nil {
		return err
	}
	for i, existing := range profiles {
		if existing.ID == profile.ID {
			profiles[i] = profile
			return r.core.saveProfiles(ctx, profiles)
		}
	}
	return ErrNotFound
}

// Exists reports whether a profile with the given id exists.
func (r *BlobProfileRepository) Exists(ctx context.Context, profileID string) (bool, error) {
	_, err := r.Get(ctx, profileID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// BlobApprovalRepository implements ApprovalRepository over the per-profile
// approvals documents.
type BlobApprovalRepository struct {
	core *blobCore
}

// ListCreators returns the profile's approved creators.
func (r *BlobApprovalRepository) ListCreators(ctx context.Context, profileID string) ([]models.ApprovedCreator, error) {
	doc, err := r.core.loadApprovals(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return doc.ApprovedCreators, nil
}

// AddCreator persists a new creator grant.
func (r *BlobApprovalRepository) AddCreator(ctx context.Context, profileID string, creator models.ApprovedCreator) error {
	doc, err := r.core.loadApprovals(ctx, profileID)
	if err != nil {
		return err
	}
	for _, existing := range doc.ApprovedCreators {
		if existing.ChannelID == creator.ChannelID {
			return ErrConflict
		}
	}
	doc.ApprovedCreators = append(doc.ApprovedCreators, creator)
	return r.core.saveApprovals(ctx, profileID, doc)
}

// RemoveCreator deletes a creator grant.
func (r *BlobApprovalRepository) RemoveCreator(ctx context.Context, profileID, channelID string) error {
	doc, err := r.core.loadApprovals(ctx, profileID)
	if err != nil {
		return err
	}
	kept := doc.ApprovedCreators[:0]
	for _, existing := range doc.ApprovedCreators {
		if existing.ChannelID != channelID {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(doc.ApprovedCreators) {
		return ErrNotFound
	}
	doc.ApprovedCreators = kept
	return r.core.saveApprovals(ctx, profileID, doc)
}

// ListVideos returns the profile's individually approved videos, most
// recently added first.
func (r *BlobApprovalRepository) ListVideos(ctx context.Context, profileID string) ([]models.ApprovedVideo, error) {
	doc, err := r.core.loadApprovals(ctx, profileID)
	if err != nil {
		return nil, err
	}
	videos := append([]models.ApprovedVideo(nil), doc.ApprovedVideos...)
	sort.SliceStable(videos, func(i, j int) bool { return videos[i].AddedAt.After(videos[j].AddedAt) })
	return videos, nil
}

// AddVideo persists a new individually approved video.
func (r *BlobApprovalRepository) AddVideo(ctx context.Context, profileID string, video models.ApprovedVideo) error {
	doc, err := r.core.loadApprovals(ctx, profileID)
	if err != nil {
		return err
	}
	for _, existing := range doc.ApprovedVideos {
		if existing.VideoID == video.VideoID {
			return ErrConflict
		}
	}
	doc.ApprovedVideos = append(doc.ApprovedVideos, video)
	return r.core.saveApprovals(ctx, profileID, doc)
}

// RemoveVideo deletes an individually approved video.
func (r *BlobApprovalRepository) RemoveVideo(ctx context.Context, profileID, videoID string) error {
	doc, err := r.core.loadApprovals(ctx, profileID)
	if err != nil {
		return err
	}
	kept := doc.ApprovedVideos[:0]
	for _, existing := range doc.ApprovedVideos {
		if existing.VideoID != videoID {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(doc.ApprovedVideos) {
		return ErrNotFound
	}
	doc.ApprovedVideos = kept
	return r.core.saveApprovals(ctx, profileID, doc)
}

// ListBlocked returns the profile's blocked videos.
func (r *BlobApprovalRepository) ListBlocked(ctx context.Context, profileID string) ([]models.BlockedVideo, error) {
	doc, err := r.core.loadApprovals(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return doc.BlockedVideos, nil
}

// UpsertBlocked blocks a video, refreshing reason and timestamp when the
// block already exists.
func (r *BlobApprovalRepository) UpsertBlocked(ctx context.Context, profileID string, blocked models.BlockedVideo) error {
	doc, err := r.core.loadApprovals(ctx, profileID)
	if err != nil {
		return err
	}
	for i, existing := range doc.BlockedVideos {
		if existing.VideoID == blocked.VideoID {
			doc.BlockedVideos[i] = blocked
			return r.core.saveApprovals(ctx, profileID, doc)
		}
	}
	doc.BlockedVideos = append(doc.BlockedVideos, blocked)
	return r.core.saveApprovals(ctx, profileID, doc)
}

// RemoveBlocked unblocks a video.
func (r *BlobApprovalRepository) RemoveBlocked(ctx context.Context, profileID, videoID string) error {
	doc, err := r.core.loadApprovals(ctx, profileID)
	if err != nil {
		return err
	}
	kept := doc.BlockedVideos[:0]
	for _, existing := range doc.BlockedVideos {
		if existing.VideoID != videoID {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(doc.BlockedVideos) {
		return ErrNotFound
	}
	doc.BlockedVideos = kept
	return r.core.saveApprovals(ctx, profileID, doc)
}

// BlobHistoryRepository implements HistoryRepository over the per-profile
// history documents. Records are stored oldest-first.
type BlobHistoryRepository struct {
	core *blobCore
}

// Append stores a new watch record.
func (r *BlobHistoryRepository) Append(ctx context.Context, profileID string, record models.WatchRecord) error {
	doc, err := r.core.loadHistory(ctx, profileID)
	if err != nil {
		return err
	}
	doc.Watches = append(doc.Watches, record)
	return r.core.saveHistory(ctx, profileID, doc)
}

// List returns watch records most-recent-first, truncated to limit.
func (r *BlobHistoryRepository) List(ctx context.Context, profileID string, limit int) ([]models.WatchRecord, error) {
	doc, err := r.core.loadHistory(ctx, profileID)
	if err != nil {
		return nil, err
	}

	records := make([]models.WatchRecord, 0, len(doc.Watches))
	for i := len(doc.Watches) - 1; i >= 0; i-- {
		records = append(records, doc.Watches[i])
		if limit > 0 && len(records) >= limit {
			break
		}
	}
	return records, nil
}

// Trim drops the oldest records beyond keep.
func (r *BlobHistoryRepository) Trim(ctx context.Context, profileID string, keep int) error {
	doc, err := r.core.loadHistory(ctx, profileID)
	if err != nil {
		return err
	}
	if len(doc.Watches) <= keep {
		return nil
	}
	doc.Watches = doc.Watches[len(doc.Watches)-keep:]
	return r.core.saveHistory(ctx, profileID, doc)
}

func (c *blobCore) loadProfiles(ctx context.Context) ([]models.Profile, error) {
	var doc profilesDoc
	found, err := c.getJSON(ctx, profilesKey, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	profiles := make([]models.Profile, 0, len(doc.Profiles))
	for _, raw := range doc.Profiles {
		profiles = append(profiles, models.Profile{
			ID:        raw.ID,
			AvatarID:  raw.AvatarID,
			SillyName: raw.SillyName,
			PinHash:   raw.PinHash,
			CreatedAt: raw.CreatedAt,
		})
	}
	return profiles, nil
}

func (c *blobCore) saveProfiles(ctx context.Context, profiles []models.Profile) error {
	doc := profilesDoc{Profiles: make([]blobProfile, 0, len(profiles))}
	for _, profile := range profiles {
		doc.Profiles = append(doc.Profiles, blobProfile{
			ID:        profile.ID,
			AvatarID:  profile.AvatarID,
			SillyName: profile.SillyName,
			PinHash:   profile.PinHash,
			CreatedAt: profile.CreatedAt,
		})
	}
	return c.putJSON(ctx, profilesKey, doc)
}

func (c *blobCore) loadApprovals(ctx context.Context, profileID string) (approvalsDoc, error) {
	doc := approvalsDoc{ProfileID: profileID}
	if _, err := c.getJSON(ctx, approvalsKey(profileID), &doc); err != nil {
		return approvalsDoc{}, err
	}
	return doc, nil
}

func (c *blobCore) saveApprovals(ctx context.Context, profileID string, doc approvalsDoc) error {
	doc.ProfileID = profileID
	return c.putJSON(ctx, approvalsKey(profileID), doc)
}

func (c *blobCore) loadHistory(ctx context.Context, profileID string) (historyDoc, error) {
	doc := historyDoc{ProfileID: profileID}
	if _, err := c.getJSON(ctx, historyKey(profileID), &doc); err != nil {
		return historyDoc{}, err
	}
	return doc, nil
}

func (c *blobCore) saveHistory(ctx context.Context, profileID string, doc historyDoc) error {
	doc.ProfileID = profileID
	return c.putJSON(ctx, historyKey(profileID), doc)
}

// getJSON fetches and decodes a document. It reports found=false without an
// error when the key does not exist yet.
func (c *blobCore) getJSON(ctx context.Context, key string, out any) (bool, error) {
	resp, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *s3types.NoSuchKey
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("blob get %s: %w", key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("blob read %s: %w", key, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return false, fmt.Errorf("blob decode %s: %w", key, err)
	}
	return true, nil
}

func (c *blobCore) putJSON(ctx context.Context, key string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("blob encode %s: %w", key, err)
	}

	_, err = c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("blob put %s: %w", key, err)
	}
	return nil
}

var _ ProfileRepository = (*BlobProfileRepository)(nil)
var _ ApprovalRepository = (*BlobApprovalRepository)(nil)
var _ HistoryRepository = (*BlobHistoryRepository)(nil)
