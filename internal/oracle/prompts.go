package oracle

import (
	"fmt"
	"strings"

	"github.com/2beens/fitcoach/internal/profile"
	"github.com/2beens/fitcoach/internal/progress"
)

const chatPersona = "You are FitnessBuddy AI, a helpful fitness assistant. " +
	"You give concise answers (max 10 sentences) about workouts, nutrition, and fitness goals."

func recommendationPrompt(p profile.Profile) string {
	allergies := "No"
	if p.HasAllergies {
		allergies = "Yes"
	}
	return fmt.Sprintf(`As a fitness expert, provide personalized recommendations for a person with the following details:
- Height: %gcm
- Weight: %gkg
- BMI: %g
- Fitness Goal: %s
- Target Weight: %gkg
- Diet: %s
- Meals per day: %d
- Food allergies: %s

Provide three sections:
1. Diet Plan
2. Workout Routine
3. Foods to Avoid`,
		p.Height, p.Weight, p.BMI, p.FitnessGoal, p.TargetWeight, p.DietaryPreference, p.MealsPerDay, allergies,
	)
}

func nutritionPrompt(meals []progress.Meal) string {
	lines := make([]string, 0, len(meals))
	for _, m := range meals {
		lines = append(lines, fmt.Sprintf("%s - %s", m.Name, m.Portions))
	}
	return fmt.Sprintf(`Act as a nutritional calculator. For these meals:
%s

Return ONLY a valid JSON object like this:
{
    "totalCalories": <number>,
    "protein": <number>,
    "carbs": <number>,
    "fats": <number>,
    "breakdown": {
        "<mealName>": <calories>
    }
}`, strings.Join(lines, "\n"))
}

func workoutPrompt(w progress.Workout) string {
	return fmt.Sprintf(`Act as a fitness calculator. For this workout:
Type: %s
Duration: %g minutes
Intensity: %s
Exercises: %s

Return ONLY a valid JSON object like this:
{
    "caloriesBurned": <number>,
    "intensityScore": <number>,
    "impactedMuscleGroups": [<string array>]
}`, w.Type, w.Duration, w.Intensity, strings.Join(w.Exercises, ", "))
}

func dayPlanPrompt(req DietPlanRequest, day string) string {
	return fmt.Sprintf(`Create a structured %s diet plan for %s, with %d meals for %s.

Format the response as follows:
Morning (Time: 7-9 AM)
• Meal item 1 with portion size
• Meal item 2 with portion size
• Add calorie count

Mid-Morning (Time: 11 AM)
• Snack items with portions
• Add calorie count

Lunch (Time: 1-2 PM)
• Main dish with portion
• Side items with portions
• Add calorie count

Evening Snack (Time: 4-5 PM)
• Healthy snack options
• Add calorie count

Dinner (Time: 7-8 PM)
• Main dish with portion
• Side items with portions
• Add calorie count

Total daily calories: [Sum]
Protein: [g] | Carbs: [g] | Fats: [g]`, req.Preference, req.Goal, req.MealsPerDay, day)
}

func chatPrompt(message, page string) string {
	persona := chatPersona
	switch page {
	case "workout":
		persona += " The user is currently viewing workout plans."
	case "diet-plan":
		persona += " The user is looking at their diet plans."
	}
	return persona + "\n\nUser: " + message
}
