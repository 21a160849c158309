package service

import (
	"sort"

	"github.com/noah-isme/informs-api/internal/dto"
	"github.com/noah-isme/informs-api/internal/models"
)

// conflictGroup is one student holding two or more exams in the same timeslot.
type conflictGroup struct {
	studentID  int64
	timeslotID int64
	examIDs    []int64
}

// examTimeslots maps each scheduled exam to its timeslot. When an exam is
// scheduled more than once the row with the lowest id wins; snapshot schedules
// arrive ordered by id.
func examTimeslots(schedules []models.Schedule) map[int64]int64 {
	slots := make(map[int64]int64, len(schedules))
	for _, s := range schedules {
		if _, seen := slots[s.ExamID]; !seen {
			slots[s.ExamID] = s.TimeslotID
		}
	}
	return slots
}

// findConflictGroups walks students in first-enrollment order and, per
// student, timeslots in first-appearance order.
func findConflictGroups(snapshot *models.ScheduleSnapshot) []conflictGroup {
	slots := examTimeslots(snapshot.Schedules)

	var studentOrder []int64
	examsByStudent := make(map[int64][]int64)
	for _, e := range snapshot.Enrollments {
		if _, ok := examsByStudent[e.StudentID]; !ok {
			studentOrder = append(studentOrder, e.StudentID)
		}
		examsByStudent[e.StudentID] = append(examsByStudent[e.StudentID], e.ExamID)
	}

	groups := []conflictGroup{}
	for _, studentID := range studentOrder {
		var slotOrder []int64
		bySlot := make(map[int64][]int64)
		seenExam := make(map[int64]bool)
		for _, examID := range examsByStudent[studentID] {
			slotID, scheduled := slots[examID]
			if !scheduled || seenExam[examID] {
				continue
			}
			seenExam[examID] = true
			if _, ok := bySlot[slotID]; !ok {
				slotOrder = append(slotOrder, slotID)
			}
			bySlot[slotID] = append(bySlot[slotID], examID)
		}
		for _, slotID := range slotOrder {
			if len(bySlot[slotID]) < 2 {
				continue
			}
			groups = append(groups, conflictGroup{studentID: studentID, timeslotID: slotID, examIDs: bySlot[slotID]})
		}
	}
	return groups
}

// DetectConflicts lists every (student, timeslot) pair in which a student sits
// two or more exams of the snapshot's version. Missing students and timeslots
// render as nil and missing exams are left out.
func DetectConflicts(snapshot *models.ScheduleSnapshot) dto.ConflictReport {
	students := make(map[int64]models.Student, len(snapshot.Students))
	for _, s := range snapshot.Students {
		students[s.ID] = s
	}
	timeslots := make(map[int64]models.TimeSlot, len(snapshot.TimeSlots))
	for _, t := range snapshot.TimeSlots {
		timeslots[t.ID] = t
	}
	exams := make(map[int64]models.Exam, len(snapshot.Exams))
	for _, e := range snapshot.Exams {
		exams[e.ID] = e
	}

	groups := findConflictGroups(snapshot)
	conflicts := make([]dto.Conflict, 0, len(groups))
	for _, g := range groups {
		conflict := dto.Conflict{Exams: []models.Exam{}}
		if student, ok := students[g.studentID]; ok {
			conflict.Student = &student
		}
		if slot, ok := timeslots[g.timeslotID]; ok {
			conflict.Timeslot = &slot
		}
		for _, examID := range g.examIDs {
			if exam, ok := exams[examID]; ok {
				conflict.Exams = append(conflict.Exams, exam)
			}
		}
		conflicts = append(conflicts, conflict)
	}

	return dto.ConflictReport{
		VersionID:      snapshot.VersionID,
		TotalConflicts: len(conflicts),
		Conflicts:      conflicts,
	}
}

// BuildAnalytics summarises the snapshot's version. It never fails; rows that
// reference deleted exams or rooms are skipped.
func BuildAnalytics(snapshot *models.ScheduleSnapshot) dto.Analytics {
	rooms := make(map[int64]models.Room, len(snapshot.Rooms))
	for _, r := range snapshot.Rooms {
		rooms[r.ID] = r
	}
	exams := make(map[int64]models.Exam, len(snapshot.Exams))
	for _, e := range snapshot.Exams {
		exams[e.ID] = e
	}

	scheduled := make(map[int64]struct{})
	usage := make(map[int64]int)
	warnings := []dto.CapacityWarning{}
	for _, s := range snapshot.Schedules {
		scheduled[s.ExamID] = struct{}{}
		usage[s.RoomID]++

		exam, examOK := exams[s.ExamID]
		room, roomOK := rooms[s.RoomID]
		if examOK && roomOK && exam.StudentCount > room.Capacity {
			warnings = append(warnings, dto.CapacityWarning{
				ScheduleID: s.ID,
				Exam:       exam.CourseName,
				Students:   exam.StudentCount,
				Room:       room.Name,
				Capacity:   room.Capacity,
			})
		}
	}

	roomIDs := make([]int64, 0, len(usage))
	for id := range usage {
		if _, ok := rooms[id]; ok {
			roomIDs = append(roomIDs, id)
		}
	}
	sort.Slice(roomIDs, func(i, j int) bool { return roomIDs[i] < roomIDs[j] })
	roomUsage := make([]dto.RoomUsage, 0, len(roomIDs))
	for _, id := range roomIDs {
		roomUsage = append(roomUsage, dto.RoomUsage{RoomID: id, Room: rooms[id].Name, Count: usage[id]})
	}

	groups := findConflictGroups(snapshot)
	affected := make(map[int64]struct{})
	for _, g := range groups {
		affected[g.studentID] = struct{}{}
	}

	return dto.Analytics{
		VersionID:        snapshot.VersionID,
		TotalExams:       len(snapshot.Exams),
		ScheduledExams:   len(scheduled),
		TotalRooms:       len(snapshot.Rooms),
		TotalStudents:    len(snapshot.Students),
		TotalTimeslots:   len(snapshot.TimeSlots),
		ConflictCount:    len(groups),
		AffectedStudents: len(affected),
		CapacityWarnings: warnings,
		RoomUsage:        roomUsage,
	}
}
