package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/campus/core/user"
)

var (
	physics    = Course{ID: "C101", Name: "Introduction to Physics"}
	calculus   = Course{ID: "C102", Name: "Calculus I"}
	history    = Course{ID: "C103", Name: "World History"}
	literature = Course{ID: "C104", Name: "English Literature"}
)

func newStudent(id int, courses ...Course) Student {
	return Student{User: user.User{ID: id, Role: user.RoleStudent}, Courses: courses}
}

func studentIDs(students []Student) []int {
	ids := make([]int, 0, len(students))
	for _, s := range students {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestResolveEnrollment(t *testing.T) {
	alice := newStudent(1, physics, calculus)
	bob := newStudent(2, history, literature)
	charlie := newStudent(3, calculus, history)
	nobody := newStudent(4)
	students := []Student{alice, bob, charlie, nobody}

	tests := []struct {
		name     string
		schedule []Course
		students []Student
		want     []int
	}{
		{name: "physics & calculus", schedule: []Course{physics, calculus}, students: students, want: []int{1, 3}},
		{name: "history & literature", schedule: []Course{history, literature}, students: students, want: []int{2, 3}},
		{name: "roster order is kept", schedule: []Course{history, calculus}, students: students, want: []int{1, 2, 3}},
		{name: "empty schedule", schedule: nil, students: students, want: []int{}},
		{name: "no shared course", schedule: []Course{{ID: "C999"}}, students: students, want: []int{}},
		{name: "no students", schedule: []Course{physics}, students: nil, want: []int{}},
		{
			name:     "matched by id, not by name",
			schedule: []Course{{ID: "C101", Name: "Physics (renamed)"}},
			students: students,
			want:     []int{1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveEnrollment(tt.schedule, tt.students)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, studentIDs(got))
		})
	}
}

func TestTaughtBy(t *testing.T) {
	reed := Teacher{Schedule: []Course{physics, calculus}}
	chen := Teacher{Schedule: []Course{history, literature}}

	assert.True(t, TaughtBy(newStudent(1, physics, calculus), reed))
	assert.False(t, TaughtBy(newStudent(1, physics, calculus), chen))
	assert.True(t, TaughtBy(newStudent(3, calculus, history), chen))
	assert.False(t, TaughtBy(newStudent(4), reed))
	assert.False(t, TaughtBy(newStudent(1, physics), Teacher{}))
}

func TestSharedCourses(t *testing.T) {
	schedule := []Course{physics, calculus}

	assert.Equal(t, []Course{physics, calculus}, SharedCourses(schedule, newStudent(1, calculus, physics)))
	assert.Equal(t, []Course{calculus}, SharedCourses(schedule, newStudent(3, calculus, history)))
	assert.Empty(t, SharedCourses(schedule, newStudent(2, history, literature)))
}
