package db

import (
	"database/sql"
	"fmt"
)

// SeedRecipe is one of the permanent recipes inserted when the schema is created.
type SeedRecipe struct {
	Name        string
	Ingredients string
	Notes       string
	ImageURI    string
}

var permanentRecipes = []SeedRecipe{
	{
		Name:        "Barbecue Chicken",
		Ingredients: "4 skin-on, bone-in chicken breasts, 1/2 cup apple cider, 1/4 cup ketchup, 2 tbsp Worcestershire sauce, etc.",
		Notes:       "Position a rack in the upper third of the oven; preheat to 425 degrees F. Season the chicken...",
		ImageURI:    "https://food.fnr.sndimg.com/content/dam/images/food/fullset/2014/2/7/1/FNM_030114-Roasted-Chicken-With-Succotash-Recipe-h_s4x3.jpg.rend.hgtvcom.826.620.suffix/1391877822515.webp",
	},
	{
		Name:        "Instant Pot Salmon",
		Ingredients: "1 1/4 pounds small red-skinned potatoes, 4 tbsp unsalted butter, Four 5- to 6-ounce salmon fillets, etc.",
		Notes:       "Put the potatoes in the bottom of an Instant Pot. Add 1 cup water, 2 tablespoons of the butter...",
		ImageURI:    "https://food.fnr.sndimg.com/content/dam/images/food/fullset/2017/10/3/0/FNM_110117-Instant-Pot-Salmon-with-Garlic-Potatoes_s4x3.jpg.rend.hgtvcom.1280.720.suffix/1507047931718.webp",
	},
	{
		Name:        "Cauliflower Stir-Fry",
		Ingredients: "1 cup jasmine rice, 1 head cauliflower, 3 tbsp vegetable oil, etc.",
		Notes:       "Preheat the broiler. Cook the rice as the label directs. Meanwhile, toss the cauliflower...",
		ImageURI:    "https://food.fnr.sndimg.com/content/dam/images/food/fullset/2016/12/17/4/FNM010117_Cauliflower-Star-Fry-with-Toasted-Peanuts-Recipe_s4x3.jpg.rend.hgtvcom.1280.720.suffix/1482181364458.webp",
	},
	{
		Name:        "Stuffed Bell Peppers",
		Ingredients: "6 bell peppers, any color, 4 tbsp olive oil, 8 ounces lean ground beef, etc.",
		Notes:       "Preheat the oven to 350 degrees F. Cut the tops off the peppers. Remove and discard the stems...",
		ImageURI:    "https://food.fnr.sndimg.com/content/dam/images/food/fullset/2016/2/26/2/WU1307H_stuffed-peppers_s4x3.jpg.rend.hgtvcom.1280.720.suffix/1463506005081.webp",
	},
}

// PermanentRecipes returns a copy of the seed set, in insertion order.
func PermanentRecipes() []SeedRecipe {
	out := make([]SeedRecipe, len(permanentRecipes))
	copy(out, permanentRecipes)
	return out
}

// seedPermanentRecipes inserts the seed set inside tx, so either all of them
// land or none do.
func seedPermanentRecipes(tx *sql.Tx) error {
	stmt, err := tx.Prepare(insertSeedRecipeStatement)
	if err != nil {
		return fmt.Errorf("prepare seed insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range permanentRecipes {
		if _, err := stmt.Exec(r.Name, r.Ingredients, r.Notes, r.ImageURI, false); err != nil {
			return fmt.Errorf("seed recipe %q: %w", r.Name, err)
		}
	}
	return nil
}
