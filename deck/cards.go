package deck

// Default card lists. TargetField values refer to board positions.

func standardChance() []Card {
	return []Card{
		{ID: 1, Description: "Advance to Go", Action: ActionMove, TargetField: 0},
		{ID: 2, Description: "Advance to Illinois Avenue", Action: ActionMove, TargetField: 24},
		{ID: 3, Description: "Advance to St. Charles Place", Action: ActionMove, TargetField: 11},
		{ID: 4, Description: "Go back three spaces", Action: ActionMove, Spaces: -3},
		{ID: 5, Description: "Bank pays you dividend of $50", Action: ActionGetMoney, Amount: 50},
		{ID: 6, Description: "Speeding fine $15", Action: ActionPay, Amount: 15},
		{ID: 7, Description: "Take a trip to Reading Railroad", Action: ActionMove, TargetField: 5},
		{ID: 8, Description: "You have been elected chairman of the board, pay each player $50", Action: ActionPay, Amount: 50, ToOthers: true},
		{ID: 9, Description: "Your building loan matures, collect $150", Action: ActionGetMoney, Amount: 150},
		{ID: 10, Description: "Advance to Boardwalk", Action: ActionMove, TargetField: 39},
	}
}

func standardChest() []Card {
	return []Card{
		{ID: 101, Description: "Advance to Go", Action: ActionMove, TargetField: 0},
		{ID: 102, Description: "Bank error in your favor, collect $200", Action: ActionGetMoney, Amount: 200},
		{ID: 103, Description: "Doctor's fee, pay $50", Action: ActionPay, Amount: 50},
		{ID: 104, Description: "From sale of stock you get $50", Action: ActionGetMoney, Amount: 50},
		{ID: 105, Description: "Grand opera night, collect $50 from every player", Action: ActionGetMoney, Amount: 50, FromOthers: true},
		{ID: 106, Description: "Holiday fund matures, collect $100", Action: ActionGetMoney, Amount: 100},
		{ID: 107, Description: "Income tax refund, collect $20", Action: ActionGetMoney, Amount: 20},
		{ID: 108, Description: "Hospital fees, pay $100", Action: ActionPay, Amount: 100},
		{ID: 109, Description: "School fees, pay $50", Action: ActionPay, Amount: 50},
		{ID: 110, Description: "You inherit $100", Action: ActionGetMoney, Amount: 100},
	}
}
