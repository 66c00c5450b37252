package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotel-frontdesk/models"
	"hotel-frontdesk/repository"
)

// RoomService is the read-only room catalog. Status on each view is
// derived from active stays at query time.
type RoomService struct {
	store repository.Store
}

func NewRoomService(d Deps) *RoomService {
	return &RoomService{store: d.Store}
}

type RoomView struct {
	models.Room
	Status models.RoomStatus `json:"status"`
}

type RoomCounts struct {
	Total     int `json:"total"`
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
}

// List returns the catalog filtered by derived status; an empty filter
// means all rooms.
func (s *RoomService) List(ctx context.Context, filter models.RoomStatus) ([]RoomView, error) {
	switch filter {
	case "", models.RoomStatusAvailable, models.RoomStatusOccupied:
	default:
		return nil, invalid("status", "must be Available or Occupied")
	}

	rooms, err := s.store.Rooms().List(ctx)
	if err != nil {
		return nil, err
	}
	occupied, err := occupiedRooms(ctx, s.store)
	if err != nil {
		return nil, err
	}

	out := make([]RoomView, 0, len(rooms))
	for _, r := range rooms {
		v := RoomView{Room: r, Status: models.RoomStatusAvailable}
		if occupied[r.RoomNumber] {
			v.Status = models.RoomStatusOccupied
		}
		if filter != "" && v.Status != filter {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *RoomService) Get(ctx context.Context, number string) (*RoomView, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, invalid("room", "is required")
	}
	room, err := findRoom(ctx, s.store, number)
	if err != nil {
		return nil, err
	}
	v := &RoomView{Room: *room, Status: models.RoomStatusAvailable}
	if _, err := s.store.Stays().FindActive(ctx, number); err == nil {
		v.Status = models.RoomStatusOccupied
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return v, nil
}

func (s *RoomService) Counts(ctx context.Context) (RoomCounts, error) {
	rooms, err := s.List(ctx, "")
	if err != nil {
		return RoomCounts{}, err
	}
	c := RoomCounts{Total: len(rooms)}
	for _, r := range rooms {
		if r.Status == models.RoomStatusOccupied {
			c.Occupied++
		}
	}
	c.Available = c.Total - c.Occupied
	return c, nil
}

func findRoom(ctx context.Context, store repository.Store, number string) (*models.Room, error) {
	room, err := store.Rooms().FindByNumber(ctx, number)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("room %s: %w", number, ErrNotFound)
	}
	return room, err
}

func occupiedRooms(ctx context.Context, store repository.Store) (map[string]bool, error) {
	stays, err := store.Stays().List(ctx, models.StayStatusOccupied)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(stays))
	for _, st := range stays {
		set[st.RoomNumber] = true
	}
	return set, nil
}
