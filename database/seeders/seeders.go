package seeders

import (
	"encoding/json"
	"log"
	"time"

	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/database"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/models"
	"github.com/PragnyanAssociates/Vivekananda-Public-School-ERP-sub002/utils"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedTeachers()
	SeedStudents()
	SeedTimetable()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers seeds the users table
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	// Hash the default password
	hashedPassword, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			BaseModel: models.BaseModel{ID: 1},
			Username:  "admin",
			Password:  hashedPassword,
			Email:     "admin@vpschool.edu.in",
			Phone:     "9812345670",
			Role:      "admin",
			Status:    "active",
		},
		{
			BaseModel: models.BaseModel{ID: 2},
			Username:  "meena_sharma",
			Password:  hashedPassword,
			Email:     "meena.sharma@vpschool.edu.in",
			Phone:     "9812345671",
			Role:      "teacher",
			Status:    "active",
		},
		{
			BaseModel: models.BaseModel{ID: 3},
			Username:  "ravi_kumar",
			Password:  hashedPassword,
			Email:     "ravi.kumar@vpschool.edu.in",
			Phone:     "9812345672",
			Role:      "teacher",
			Status:    "active",
		},
		{
			BaseModel: models.BaseModel{ID: 4},
			Username:  "ananya_r",
			Password:  hashedPassword,
			Email:     "ananya.rao@student.vpschool.edu.in",
			Role:      "student",
			Status:    "active",
		},
		{
			BaseModel: models.BaseModel{ID: 5},
			Username:  "farhan_a",
			Password:  hashedPassword,
			Email:     "farhan.ali@student.vpschool.edu.in",
			Role:      "student",
			Status:    "active",
		},
		{
			BaseModel: models.BaseModel{ID: 6},
			Username:  "priya_n",
			Password:  hashedPassword,
			Email:     "priya.nair@student.vpschool.edu.in",
			Role:      "student",
			Status:    "active",
		},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", user.Username, err)
		}
	}

	log.Println("Users seeded successfully")
}

// SeedTeachers seeds the teachers table
func SeedTeachers() {
	var count int64
	database.DB.Model(&models.Teacher{}).Count(&count)
	if count > 0 {
		log.Println("Teachers already seeded, skipping...")
		return
	}

	mathSubjects, _ := json.Marshal([]string{"Mathematics", "Science"})
	langSubjects, _ := json.Marshal([]string{"English", "Hindi", "Social Studies"})

	teachers := []models.Teacher{
		{
			BaseModel:      models.BaseModel{ID: 1},
			UserID:         2,
			FullName:       "Meena Sharma",
			Qualification:  "M.Sc. B.Ed.",
			SubjectsTaught: mathSubjects,
			Active:         true,
		},
		{
			BaseModel:      models.BaseModel{ID: 2},
			UserID:         3,
			FullName:       "Ravi Kumar",
			Qualification:  "M.A. B.Ed.",
			SubjectsTaught: langSubjects,
			Active:         true,
		},
	}

	for _, teacher := range teachers {
		if err := database.DB.Create(&teacher).Error; err != nil {
			log.Printf("Error seeding teacher %s: %v", teacher.FullName, err)
		}
	}

	log.Println("Teachers seeded successfully")
}

// SeedStudents seeds the students table
func SeedStudents() {
	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	if count > 0 {
		log.Println("Students already seeded, skipping...")
		return
	}

	students := []models.Student{
		{
			BaseModel:  models.BaseModel{ID: 1},
			UserID:     4,
			FullName:   "Ananya Rao",
			ClassGroup: "6A",
			RollNo:     1,
			ParentName: "Suresh Rao",
			Phone:      "9898765430",
			Active:     true,
		},
		{
			BaseModel:  models.BaseModel{ID: 2},
			UserID:     5,
			FullName:   "Farhan Ali",
			ClassGroup: "6A",
			RollNo:     2,
			ParentName: "Imran Ali",
			Phone:      "9898765431",
			Active:     true,
		},
		{
			BaseModel:  models.BaseModel{ID: 3},
			UserID:     6,
			FullName:   "Priya Nair",
			ClassGroup: "6B",
			RollNo:     1,
			ParentName: "Rajesh Nair",
			Phone:      "9898765432",
			Active:     true,
		},
	}

	for _, student := range students {
		if err := database.DB.Create(&student).Error; err != nil {
			log.Printf("Error seeding student with UserID %d: %v", student.UserID, err)
		}
	}

	log.Println("Students seeded successfully")
}

// SeedTimetable seeds a starter weekly grid for class 6A
func SeedTimetable() {
	var count int64
	database.DB.Model(&models.TimetableSlot{}).Count(&count)
	if count > 0 {
		log.Println("Timetable already seeded, skipping...")
		return
	}

	meena := uint(1)
	ravi := uint(2)

	slots := []models.TimetableSlot{
		{ClassGroup: "6A", DayOfWeek: time.Monday, PeriodNumber: 1, SubjectName: "Mathematics", TeacherID: &meena},
		{ClassGroup: "6A", DayOfWeek: time.Monday, PeriodNumber: 2, SubjectName: "English", TeacherID: &ravi},
		{ClassGroup: "6A", DayOfWeek: time.Monday, PeriodNumber: 3, SubjectName: "Science", TeacherID: &meena},
		{ClassGroup: "6A", DayOfWeek: time.Tuesday, PeriodNumber: 1, SubjectName: "English", TeacherID: &ravi},
		{ClassGroup: "6A", DayOfWeek: time.Tuesday, PeriodNumber: 2, SubjectName: "Mathematics", TeacherID: &meena},
		{ClassGroup: "6A", DayOfWeek: time.Wednesday, PeriodNumber: 1, SubjectName: "Science", TeacherID: &meena},
		{ClassGroup: "6A", DayOfWeek: time.Wednesday, PeriodNumber: 2, SubjectName: "Social Studies", TeacherID: &ravi},
		{ClassGroup: "6A", DayOfWeek: time.Thursday, PeriodNumber: 1, SubjectName: "Hindi", TeacherID: &ravi},
		{ClassGroup: "6A", DayOfWeek: time.Friday, PeriodNumber: 1, SubjectName: "Mathematics", TeacherID: &meena},
		{ClassGroup: "6A", DayOfWeek: time.Saturday, PeriodNumber: 1, SubjectName: "English", TeacherID: &ravi},
	}

	for _, slot := range slots {
		if err := database.DB.Create(&slot).Error; err != nil {
			log.Printf("Error seeding timetable slot %s %s p%d: %v",
				slot.ClassGroup, slot.DayOfWeek, slot.PeriodNumber, err)
		}
	}

	log.Println("Timetable seeded successfully")
}
