package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/siddhiipatell/Pixel-Art-Studio/internal/domain"
	"github.com/siddhiipatell/Pixel-Art-Studio/internal/repository"
)

// BoardService manages board records and ownership checks.
type BoardService struct {
	boardRepo repository.BoardRepository
}

// NewBoardService creates a BoardService.
func NewBoardService(boardRepo repository.BoardRepository) *BoardService {
	if boardRepo == nil {
		panic("board repository cannot be nil for BoardService")
	}
	return &BoardService{boardRepo: boardRepo}
}

// CreateBoard creates a named board owned by the user.
func (s *BoardService) CreateBoard(ctx context.Context, ownerID uint, name string) (*domain.Board, error) {
	if name == "" {
		name = "Untitled board"
	}
	board := &domain.Board{
		OwnerID:    ownerID,
		Name:       name,
		LastActive: time.Now().UTC(),
	}
	if err := s.boardRepo.Save(ctx, board); err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Error("Failed to create board")
		return nil, ErrInternalServer
	}
	return board, nil
}

// ListBoards lists the user's boards, most recently active first.
func (s *BoardService) ListBoards(ctx context.Context, ownerID uint) ([]domain.Board, error) {
	boards, err := s.boardRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Error("Failed to list boards")
		return nil, ErrInternalServer
	}
	return boards, nil
}

// AuthorizeBoard loads the board and verifies it belongs to userID. It also
// bumps the last-active timestamp, best effort.
func (s *BoardService) AuthorizeBoard(ctx context.Context, boardID, userID uint) (*domain.Board, error) {
	board, err := s.boardRepo.FindByID(ctx, boardID)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			return nil, ErrBoardNotFound
		}
		logrus.WithError(err).WithField("board_id", boardID).Error("Failed to load board")
		return nil, ErrInternalServer
	}
	if board.OwnerID != userID {
		return nil, ErrNotBoardOwner
	}
	if err := s.boardRepo.TouchLastActive(ctx, boardID); err != nil {
		logrus.WithError(err).WithField("board_id", boardID).Warn("Failed to touch last_active")
	}
	return board, nil
}
