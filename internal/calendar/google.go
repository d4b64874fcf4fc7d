package calendar

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yukikurage/work-assignment-api/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcalendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendar inserts deadline events into the user's primary Google
// calendar using their stored OAuth token pair. Expired access tokens are
// refreshed through the token source when a refresh token is present.
type GoogleCalendar struct {
	conf *oauth2.Config
}

func NewGoogleCalendar(clientID, clientSecret string) *GoogleCalendar {
	return &GoogleCalendar{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{gcalendar.CalendarEventsScope},
		},
	}
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, user *models.User, item *models.WorkItem) error {
	if !user.HasCalendarLinked() {
		return nil
	}

	token := &oauth2.Token{AccessToken: *user.CalendarAccessToken}
	if user.CalendarRefreshToken != nil {
		token.RefreshToken = *user.CalendarRefreshToken
	}

	svc, err := gcalendar.NewService(ctx,
		option.WithTokenSource(g.conf.TokenSource(ctx, token)))
	if err != nil {
		return fmt.Errorf("failed to create calendar client: %w", err)
	}

	event := &gcalendar.Event{
		Summary:     fmt.Sprintf("Deadline: %s", item.Task),
		Description: item.Instructions,
		Start: &gcalendar.EventDateTime{
			DateTime: item.Deadline.Add(-time.Hour).Format(time.RFC3339),
		},
		End: &gcalendar.EventDateTime{
			DateTime: item.Deadline.Format(time.RFC3339),
		},
	}

	if _, err := svc.Events.Insert("primary", event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to insert calendar event: %w", err)
	}

	log.Printf("[CALENDAR] event created user=%d item=%d", user.ID, item.ID)
	return nil
}
