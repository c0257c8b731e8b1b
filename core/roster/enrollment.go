package roster

// courseIDs indexes the ids of a course list.
func courseIDs(courses []Course) map[string]struct{} {
	ids := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		ids[c.ID] = struct{}{}
	}
	return ids
}

func sharesCourse(ids map[string]struct{}, courses []Course) bool {
	for _, c := range courses {
		if _, ok := ids[c.ID]; ok {
			return true
		}
	}
	return false
}

// ResolveEnrollment returns the students enrolled in at least one course of schedule, matched by course id.
// The filter is stable: students keep their roster order. An empty schedule yields no students.
func ResolveEnrollment(schedule []Course, students []Student) []Student {
	enrolled := make([]Student, 0)
	if len(schedule) == 0 {
		return enrolled
	}
	ids := courseIDs(schedule)
	for _, s := range students {
		if sharesCourse(ids, s.Courses) {
			enrolled = append(enrolled, s)
		}
	}
	return enrolled
}

// TaughtBy reports whether the teacher teaches at least one of the student's courses.
func TaughtBy(s Student, t Teacher) bool {
	return sharesCourse(courseIDs(t.Schedule), s.Courses)
}

// SharedCourses returns the courses of schedule the student is enrolled in, in schedule order.
func SharedCourses(schedule []Course, s Student) []Course {
	enrolled := courseIDs(s.Courses)
	shared := make([]Course, 0, len(schedule))
	for _, c := range schedule {
		if _, ok := enrolled[c.ID]; ok {
			shared = append(shared, c)
		}
	}
	return shared
}
