package main

import (
	"fmt"
	"log"

	"github.com/navid1111/DormDeals/models"
	"github.com/navid1111/DormDeals/storage"
)

var universities = []models.University{
	{Name: "Islamic University of Technology", Code: "IUT", EmailDomain: "iut-dhaka.edu", City: "Dhaka", Country: "Bangladesh"},
	{Name: "University of Dhaka", Code: "DU", EmailDomain: "du.ac.bd", City: "Dhaka", Country: "Bangladesh"},
	{Name: "Bangladesh University of Engineering and Technology", Code: "BUET", EmailDomain: "buet.ac.bd", City: "Dhaka", Country: "Bangladesh"},
	{Name: "North South University", Code: "NSU", EmailDomain: "northsouth.edu", City: "Dhaka", Country: "Bangladesh"},
	{Name: "BRAC University", Code: "BRACU", EmailDomain: "bracu.ac.bd", City: "Dhaka", Country: "Bangladesh"},
	{Name: "Jahangirnagar University", Code: "JU", EmailDomain: "juniv.edu", City: "Savar", Country: "Bangladesh"},
}

func main() {
	storage.InitializeDB()

	for _, university := range universities {
		var existing models.University
		result := storage.DB.Where("code = ?", university.Code).Limit(1).Find(&existing)
		if result.Error != nil {
			log.Fatalf("Error checking university %s: %v", university.Code, result.Error)
		}
		if result.RowsAffected > 0 {
			fmt.Printf("University %s already seeded, skipping\n", university.Code)
			continue
		}
		if err := storage.DB.Create(&university).Error; err != nil {
			log.Fatalf("Error seeding university %s: %v", university.Code, err)
		}
		fmt.Printf("Seeded university %s (%s)\n", university.Name, university.EmailDomain)
	}

	fmt.Println("University seeding completed successfully!")
}
