package recommender

import (
	"context"

	"github.com/google/uuid"

	"github.com/projectteamwork/finrec/internal/facts"
)

// StaticRule is a product recommendation rule fixed in code. Static rules
// run before the dynamic rule set and are not tracked in fire-count stats.
type StaticRule interface {
	// Check reports whether the rule's product should be recommended to
	// the user. Errors are data access failures.
	Check(ctx context.Context, provider facts.Provider, userID uuid.UUID) (Recommendation, bool, error)
}

const (
	productTypeDebit  = "DEBIT"
	productTypeCredit = "CREDIT"
	productTypeInvest = "INVEST"
	productTypeSaving = "SAVING"
)

// InvestRule recommends the individual investment account to debit users
// without one who already save meaningfully.
type InvestRule struct{}

func (InvestRule) Check(ctx context.Context, provider facts.Provider, userID uuid.UUID) (Recommendation, bool, error) {
	hasDebit, err := provider.HasProductType(ctx, userID, productTypeDebit)
	if err != nil {
		return Recommendation{}, false, err
	}
	if !hasDebit {
		return Recommendation{}, false, nil
	}

	hasInvest, err := provider.HasProductType(ctx, userID, productTypeInvest)
	if err != nil {
		return Recommendation{}, false, err
	}
	if hasInvest {
		return Recommendation{}, false, nil
	}

	savingDeposits, err := provider.SumAmount(ctx, userID, productTypeSaving, facts.DirectionDeposit)
	if err != nil {
		return Recommendation{}, false, err
	}
	if savingDeposits <= 1_000 {
		return Recommendation{}, false, nil
	}

	return Recommendation{
		Name:      "Invest 500",
		ProductID: uuid.MustParse("147f6a0f-3b91-413b-ab99-87f081d60d5a"),
		Text: "Откройте свой путь к успеху с индивидуальным инвестиционным счетом (ИИС) от нашего банка! " +
			"Воспользуйтесь налоговыми льготами и начните инвестировать с умом. " +
			"Пополните счет до конца года и получите выгоду в виде вычета на взнос в следующем налоговом периоде. " +
			"Не упустите возможность разнообразить свой портфель, снизить риски и следить за актуальными рыночными тенденциями. " +
			"Откройте ИИС сегодня и станьте ближе к финансовой независимости!",
	}, true, nil
}

// TopSavingRule recommends the savings product to debit users with a
// positive debit balance and substantial deposits.
type TopSavingRule struct{}

func (TopSavingRule) Check(ctx context.Context, provider facts.Provider, userID uuid.UUID) (Recommendation, bool, error) {
	const limit = 50_000

	hasDebit, err := provider.HasProductType(ctx, userID, productTypeDebit)
	if err != nil {
		return Recommendation{}, false, err
	}
	if !hasDebit {
		return Recommendation{}, false, nil
	}

	debitDeposits, err := provider.SumAmount(ctx, userID, productTypeDebit, facts.DirectionDeposit)
	if err != nil {
		return Recommendation{}, false, err
	}
	debitWithdraws, err := provider.SumAmount(ctx, userID, productTypeDebit, facts.DirectionWithdraw)
	if err != nil {
		return Recommendation{}, false, err
	}
	if debitDeposits <= debitWithdraws {
		return Recommendation{}, false, nil
	}

	savingDeposits, err := provider.SumAmount(ctx, userID, productTypeSaving, facts.DirectionDeposit)
	if err != nil {
		return Recommendation{}, false, err
	}
	if debitDeposits <= limit && savingDeposits <= limit {
		return Recommendation{}, false, nil
	}

	return Recommendation{
		Name:      "Top Saving",
		ProductID: uuid.MustParse("59efc529-2fff-41af-baff-90ccd7402925"),
		Text: "Откройте свою собственную «Копилку» с нашим банком! " +
			"«Копилка» — это уникальный банковский инструмент, который поможет вам легко и удобно накапливать деньги на важные цели. " +
			"Больше никаких забытых чеков и потерянных квитанций — всё под контролем! " +
			"Преимущества «Копилки»: " +
			"Накопление средств на конкретные цели. Установите лимит и срок накопления, " +
			"и банк будет автоматически переводить определенную сумму на ваш счет. " +
			"Прозрачность и контроль. Отслеживайте свои доходы и расходы, контролируйте процесс накопления и " +
			" корректируйте стратегию при необходимости. " +
			"Безопасность и надежность. Ваши средства находятся под защитой банка, " +
			"а доступ к ним возможен только через мобильное приложение или интернет-банкинг. " +
			"Начните использовать «Копилку» уже сегодня и станьте ближе к своим финансовым целям!",
	}, true, nil
}

// SimpleCreditRule recommends the credit product to users without one whose
// debit spending is high but still covered by deposits.
type SimpleCreditRule struct{}

func (SimpleCreditRule) Check(ctx context.Context, provider facts.Provider, userID uuid.UUID) (Recommendation, bool, error) {
	const limit = 100_000

	hasCredit, err := provider.HasProductType(ctx, userID, productTypeCredit)
	if err != nil {
		return Recommendation{}, false, err
	}
	if hasCredit {
		return Recommendation{}, false, nil
	}

	debitDeposits, err := provider.SumAmount(ctx, userID, productTypeDebit, facts.DirectionDeposit)
	if err != nil {
		return Recommendation{}, false, err
	}
	debitWithdraws, err := provider.SumAmount(ctx, userID, productTypeDebit, facts.DirectionWithdraw)
	if err != nil {
		return Recommendation{}, false, err
	}
	if debitDeposits <= debitWithdraws || debitWithdraws <= limit {
		return Recommendation{}, false, nil
	}

	return Recommendation{
		Name:      "Простой кредит",
		ProductID: uuid.MustParse("ab138afb-f3ba-4a93-b74f-0fcee86d447f"),
		Text: "Откройте мир выгодных кредитов с нами! " +
			"Ищете способ быстро и без лишних хлопот получить нужную сумму? " +
			"Тогда наш выгодный кредит — именно то, что вам нужно! " +
			"Мы предлагаем низкие процентные ставки, гибкие условия и индивидуальный подход к каждому клиенту. " +
			"Почему выбирают нас: " +
			"Быстрое рассмотрение заявки. Мы ценим ваше время, поэтому процесс рассмотрения заявки занимает всего несколько часов." +
			"Удобное оформление. Подать заявку на кредит можно онлайн на нашем сайте или в мобильном приложении." +
			"Широкий выбор кредитных продуктов. Мы предлагаем кредиты на различные цели: " +
			"покупку недвижимости, автомобиля, образование, лечение и многое другое. " +
			"Не упустите возможность воспользоваться выгодными условиями кредитования от нашей компании!",
	}, true, nil
}

// DefaultStaticRules returns the built-in rule set in presentation order.
func DefaultStaticRules() []StaticRule {
	return []StaticRule{InvestRule{}, TopSavingRule{}, SimpleCreditRule{}}
}
