package service

import (
	"context"
	"fmt"

	"kurum-asistan-be/internal/dto"
	"kurum-asistan-be/internal/entity"
	"kurum-asistan-be/internal/repository/contract"

	"github.com/google/uuid"
)

type ITicketService interface {
	GetAll(ctx context.Context, userId string) ([]*dto.TicketResponse, error)
	MarkRead(ctx context.Context, userId string, ticketId uuid.UUID) error
}

type ticketService struct {
	ticketRepo contract.TicketRepository
}

func NewTicketService(ticketRepo contract.TicketRepository) ITicketService {
	return &ticketService{ticketRepo: ticketRepo}
}

func (s *ticketService) GetAll(ctx context.Context, userId string) ([]*dto.TicketResponse, error) {
	tickets, err := s.ticketRepo.FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.TicketResponse, len(tickets))
	for i, t := range tickets {
		responses[i] = toTicketResponse(t)
	}
	return responses, nil
}

func (s *ticketService) MarkRead(ctx context.Context, userId string, ticketId uuid.UUID) error {
	ticket, err := s.ticketRepo.FindById(ctx, ticketId)
	if err != nil {
		return err
	}
	if ticket == nil || ticket.UserId != userId {
		return fmt.Errorf("ticket %s not found", ticketId)
	}
	return s.ticketRepo.MarkRead(ctx, ticketId)
}

func toTicketResponse(t *entity.SupportTicket) *dto.TicketResponse {
	return &dto.TicketResponse{
		Id:          t.Id,
		Code:        t.Code,
		Department:  t.Department,
		Description: t.Description,
		Urgency:     t.Urgency,
		Category:    t.Category,
		Read:        t.Read,
		CreatedAt:   t.CreatedAt,
	}
}
