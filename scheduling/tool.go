package scheduling

import (
	"fmt"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/tool"
)

// MeetingArgs are the arguments of schedule_meeting.
type MeetingArgs struct {
	DateTime     string `json:"date_time" description:"Date and time of the meeting, e.g. Mon Nov 11 2024 23:28:43 GMT+0530"`
	Title        string `json:"title" description:"Title or purpose of the meeting"`
	Participants string `json:"participants" description:"Meeting participants"`
	Location     string `json:"location,omitempty" description:"Meeting url or physical address"`
	Description  string `json:"description,omitempty" description:"Description of the meeting"`
}

// NewScheduleMeetingTool schedules a meeting through n. A delivery failure
// is logged and does not change the result.
func NewScheduleMeetingTool(n Notifier) *tool.FunctionTool {
	return tool.NewTypedTool("schedule_meeting",
		"Schedules a meeting (a calendar invite) with the given participants at the given date and time.",
		func(tc *core.ToolContext, in MeetingArgs) (core.Result, error) {
			start, err := ParseDateTime(in.DateTime)
			if err != nil {
				return core.Result{}, &tool.ValidationError{Field: "date_time", Value: in.DateTime, Message: err.Error()}
			}

			m := Meeting{
				Start:        start,
				Title:        in.Title,
				Participants: in.Participants,
				Location:     in.Location,
				Description:  in.Description,
			}
			tc.Logger().Info("scheduling.meeting", "title", m.Title, "start", m.Start, "participants", m.Participants)

			if err := n.Notify(tc.Context(), m); err != nil {
				tc.Logger().Error("scheduling.webhook.failed", "title", m.Title, "error", err)
			}

			value := fmt.Sprintf("Scheduled meeting \"%s\" with %s for %d.", m.Title, m.Participants, m.Start)
			return core.NewResult(value).WithPatch("lastMeeting", map[string]any{
				"date_time":    m.Start,
				"title":        m.Title,
				"participants": m.Participants,
				"location":     m.Location,
				"description":  m.Description,
			}), nil
		})
}
