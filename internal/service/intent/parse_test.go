package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Result
	}{
		{
			name: "empty object",
			raw:  "{}",
			want: NoIntent{},
		},
		{
			name: "fenced empty object",
			raw:  "```json\n{}\n```",
			want: NoIntent{},
		},
		{
			name: "complete",
			raw:  `{"name":"John","email":"john@x.com","date":"tomorrow","time":"3pm"}`,
			want: Complete{Booking: Booking{Name: "John", Email: "john@x.com", Date: "tomorrow", Time: "3pm"}},
		},
		{
			name: "complete fenced and padded",
			raw:  "```json\n{\"name\":\" John \",\"email\":\"john@x.com\",\"date\":\"2024-05-02\",\"time\":\"15:00\"}\n```\n",
			want: Complete{Booking: Booking{Name: "John", Email: "john@x.com", Date: "2024-05-02", Time: "15:00"}},
		},
		{
			name: "missing email key",
			raw:  `{"name":"John","date":"tomorrow","time":"3pm"}`,
			want: Incomplete{Missing: []string{"email"}},
		},
		{
			name: "null and blank values",
			raw:  `{"name":null,"email":"john@x.com","date":"  ","time":"3pm"}`,
			want: Incomplete{Missing: []string{"name", "date"}},
		},
		{
			name: "non string value",
			raw:  `{"name":"John","email":"john@x.com","date":20240502,"time":"3pm"}`,
			want: Incomplete{Missing: []string{"date"}},
		},
		{
			name: "placeholder only",
			raw:  `{"intent":"booking"}`,
			want: Incomplete{Missing: []string{"name", "email", "date", "time"}},
		},
		{
			name: "prose",
			raw:  "Sure! Here are the details you asked for.",
			want: Unprocessable{},
		},
		{
			name: "array",
			raw:  `["John"]`,
			want: Unprocessable{},
		},
		{
			name: "null literal",
			raw:  "null",
			want: Unprocessable{},
		},
		{
			name: "empty",
			raw:  "",
			want: Unprocessable{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t,
		"I am missing the following information to book your interview: email. Can you please provide them?",
		Incomplete{Missing: []string{"email"}}.Message(),
	)
	assert.Equal(t,
		"I am missing the following information to book your interview: name, time. Can you please provide them?",
		Incomplete{Missing: []string{"name", "time"}}.Message(),
	)
	assert.Equal(t, "I am unable to process your booking request at this time.", Unprocessable{}.Message())
}
