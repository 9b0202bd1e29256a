package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/quentinrf/sleep-service/internal/domain"
	"github.com/quentinrf/sleep-service/internal/syncstore"
	"github.com/quentinrf/sleep-service/pkg/pb"
)

// SampleStore serves and purges cached samples
type SampleStore interface {
	GetSamples(ctx context.Context, start, end time.Time) []domain.Entry
	DeleteBatch(ctx context.Context, ids []uuid.UUID) int64
}

// BedtimeCalculator derives the average sleep start time
type BedtimeCalculator interface {
	AverageStartTime(ctx context.Context, sampleLimit int) (syncstore.TimeOfDay, error)
}

// SleepServiceHandler implements the gRPC SleepService
type SleepServiceHandler struct {
	pb.UnimplementedSleepServiceServer
	store SampleStore
	stats BedtimeCalculator
}

// NewSleepServiceHandler creates a new gRPC handler
func NewSleepServiceHandler(store SampleStore, stats BedtimeCalculator) *SleepServiceHandler {
	return &SleepServiceHandler{
		store: store,
		stats: stats,
	}
}

// GetSamples returns entries starting within the requested range
func (h *SleepServiceHandler) GetSamples(ctx context.Context, req *pb.GetSamplesRequest) (*pb.GetSamplesResponse, error) {
	log.Info().
		Int64("start", req.StartTime).
		Int64("end", req.EndTime).
		Msg("GetSamples called")

	if req.EndTime != 0 && req.EndTime < req.StartTime {
		return nil, status.Error(codes.InvalidArgument, "end_time must not be before start_time")
	}

	start := time.Unix(req.StartTime, 0)
	var end time.Time
	if req.EndTime != 0 {
		end = time.Unix(req.EndTime, 0)
	}

	entries := h.store.GetSamples(ctx, start, end)

	pbEntries := make([]*pb.SleepEntry, len(entries))
	for i, e := range entries {
		pbEntries[i] = convertEntryToProto(e)
	}

	return &pb.GetSamplesResponse{Entries: pbEntries}, nil
}

// GetAverageStartTime returns the average sleep start time of day
func (h *SleepServiceHandler) GetAverageStartTime(ctx context.Context, req *pb.GetAverageStartTimeRequest) (*pb.GetAverageStartTimeResponse, error) {
	log.Info().Int32("sample_limit", req.SampleLimit).Msg("GetAverageStartTime called")

	if req.SampleLimit < 0 {
		return nil, status.Error(codes.InvalidArgument, "sample_limit cannot be negative")
	}

	tod, err := h.stats.AverageStartTime(ctx, int(req.SampleLimit))
	if err != nil {
		log.Error().Err(err).Msg("failed to compute average start time")
		return nil, statusFromError(err)
	}

	return &pb.GetAverageStartTimeResponse{
		Hour:   int32(tod.Hour),
		Minute: int32(tod.Minute),
	}, nil
}

// PurgeEntries removes cached entries by ID
func (h *SleepServiceHandler) PurgeEntries(ctx context.Context, req *pb.PurgeEntriesRequest) (*pb.PurgeEntriesResponse, error) {
	log.Info().Int("ids", len(req.Ids)).Msg("PurgeEntries called")

	ids := make([]uuid.UUID, 0, len(req.Ids))
	for _, raw := range req.Ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid id %q", raw)
		}
		ids = append(ids, id)
	}

	return &pb.PurgeEntriesResponse{
		Deleted: h.store.DeleteBatch(ctx, ids),
	}, nil
}

// convertEntryToProto converts domain model to its wire form
func convertEntryToProto(e domain.Entry) *pb.SleepEntry {
	out := &pb.SleepEntry{
		Id:          e.ID.String(),
		SyncVersion: int32(domain.ClampInt32(e.SyncVersion)),
		StartTime:   e.StartDate.Unix(),
		EndTime:     e.EndDate.Unix(),
		Value:       int32(domain.ClampInt32(e.Value)),
		Category:    domain.CategoryName(e.Value),
	}
	if e.SyncIdentifier != nil {
		out.SyncIdentifier = *e.SyncIdentifier
	}
	return out
}

// statusFromError maps statistic errors onto gRPC codes
func statusFromError(err error) error {
	var qe *domain.QueryError
	var he *domain.HealthStoreError

	switch {
	case errors.Is(err, domain.ErrNoSleepDataAvailable), errors.Is(err, domain.ErrNoMatchingBedtime):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &qe), errors.As(err, &he):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
