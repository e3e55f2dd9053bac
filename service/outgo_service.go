package service

import (
	"context"
	"database/sql"
	"errors"
	"school-api/logger"
	"school-api/model"
	"school-api/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OutgoService routes leave requests from students to a teacher approver.
type OutgoService struct {
	repo     repository.IOutgoRequestRepository
	userRepo repository.IUserRepository
	clock    Clock
}

func NewOutgoService(repo repository.IOutgoRequestRepository, userRepo repository.IUserRepository, clock Clock) *OutgoService {
	return &OutgoService{repo: repo, userRepo: userRepo, clock: clock}
}

// ListMine returns requests where the caller is among the appliers.
func (s *OutgoService) ListMine(ctx context.Context, identity model.Identity) ([]*model.PopulatedOutgoRequest, error) {
	requests, err := s.repo.GetRequestsByApplier(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, requests...)
}

// Get returns one request. Students may only see requests they are part of.
func (s *OutgoService) Get(ctx context.Context, identity model.Identity, id uuid.UUID) (*model.PopulatedOutgoRequest, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Role == model.RoleStudent && !req.HasApplier(identity.ID) {
		return nil, ErrPermissionDenied
	}
	return s.populateOne(ctx, req)
}

func (s *OutgoService) Create(ctx context.Context, identity model.Identity, payload model.OutgoRequestPayload) (*model.PopulatedOutgoRequest, error) {
	req, err := s.build(ctx, identity, payload)
	if err != nil {
		return nil, err
	}
	req.Status = model.OutgoApplied

	if err := s.repo.CreateRequest(ctx, req); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, ErrApplierNotFound
		}
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"outgo_request_id": req.ID,
		"approver_id":      req.Approver,
	}).Info("Outgo request submitted")
	return s.populateOne(ctx, req)
}

// Edit rewrites a request that is still waiting for its approver. Only an applier may edit.
func (s *OutgoService) Edit(ctx context.Context, identity model.Identity, id uuid.UUID, payload model.OutgoRequestPayload) (*model.PopulatedOutgoRequest, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.HasApplier(identity.ID) {
		return nil, ErrPermissionDenied
	}
	if current.Status != model.OutgoApplied {
		return nil, ErrOutgoClosed
	}

	req, err := s.build(ctx, identity, payload)
	if err != nil {
		return nil, err
	}
	req.ID = current.ID
	req.Status = current.Status
	req.CreatedAt = current.CreatedAt

	if err := s.repo.UpdateRequest(ctx, req); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, ErrOutgoClosed
		}
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, ErrApplierNotFound
		}
		return nil, err
	}
	return s.populateOne(ctx, req)
}

// Decide records the approver's verdict on an applied request.
func (s *OutgoService) Decide(ctx context.Context, identity model.Identity, id uuid.UUID, status model.OutgoRequestStatus) (*model.PopulatedOutgoRequest, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Approver != identity.ID {
		return nil, ErrNotApprover
	}
	if req.Status != model.OutgoApplied {
		return nil, ErrOutgoClosed
	}

	if err := s.repo.UpdateStatus(ctx, id, model.OutgoApplied, status); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, ErrOutgoClosed
		}
		return nil, err
	}
	req.Status = status

	logger.Log.WithFields(logrus.Fields{
		"outgo_request_id": id,
		"status":           status,
	}).Info("Outgo request decided")
	return s.populateOne(ctx, req)
}

func (s *OutgoService) load(ctx context.Context, id uuid.UUID) (*model.OutgoRequest, error) {
	req, err := s.repo.GetRequestByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOutgoNotFound
		}
		return nil, err
	}
	return req, nil
}

// build runs the submission checks in order: self-inclusion, approver role, window, appliers.
func (s *OutgoService) build(ctx context.Context, identity model.Identity, payload model.OutgoRequestPayload) (*model.OutgoRequest, error) {
	appliers := make([]uuid.UUID, 0, len(payload.Applier))
	seen := make(map[uuid.UUID]bool, len(payload.Applier))
	for _, raw := range payload.Applier {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, ErrApplierNotFound
		}
		if !seen[id] {
			seen[id] = true
			appliers = append(appliers, id)
		}
	}
	if !seen[identity.ID] {
		return nil, ErrNotSelfApplier
	}

	approverID, err := uuid.Parse(payload.Approver)
	if err != nil {
		return nil, ErrApproverNotFound
	}
	approver, err := s.userRepo.GetUserByID(ctx, approverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApproverNotFound
		}
		return nil, err
	}
	if approver.UserType != model.RoleTeacher {
		return nil, ErrApproverNotTeacher
	}

	now := s.clock.now()
	start, end := payload.Duration.Start, payload.Duration.End
	if !start.After(now) || !end.After(start) {
		return nil, ErrInvalidDuration
	}

	found, err := s.userRepo.GetUsersByIDs(ctx, appliers)
	if err != nil {
		return nil, err
	}
	if len(found) != len(appliers) {
		return nil, ErrApplierNotFound
	}

	return &model.OutgoRequest{
		Applier:      appliers,
		Approver:     approverID,
		Reason:       payload.Reason,
		DetailReason: payload.DetailReason,
		Duration:     model.Duration{Start: start, End: end},
	}, nil
}

func (s *OutgoService) populateOne(ctx context.Context, req *model.OutgoRequest) (*model.PopulatedOutgoRequest, error) {
	populated, err := s.populate(ctx, req)
	if err != nil {
		return nil, err
	}
	return populated[0], nil
}

// populate resolves applier and approver ids with a single user lookup.
func (s *OutgoService) populate(ctx context.Context, requests ...*model.OutgoRequest) ([]*model.PopulatedOutgoRequest, error) {
	out := make([]*model.PopulatedOutgoRequest, 0, len(requests))
	if len(requests) == 0 {
		return out, nil
	}

	var ids []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, req := range requests {
		for _, id := range req.Applier {
			add(id)
		}
		add(req.Approver)
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, req := range requests {
		appliers := make([]*model.User, 0, len(req.Applier))
		for _, id := range req.Applier {
			if u, ok := byID[id]; ok {
				appliers = append(appliers, u)
			}
		}
		out = append(out, &model.PopulatedOutgoRequest{
			ID:           req.ID,
			Applier:      appliers,
			Approver:     byID[req.Approver],
			Reason:       req.Reason,
			DetailReason: req.DetailReason,
			Duration:     req.Duration,
			Status:       req.Status,
			CreatedAt:    req.CreatedAt,
		})
	}
	return out, nil
}
